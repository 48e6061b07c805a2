// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package dump orchestrates one bundle dump: verify that the
// transaction declares itself an ANS-104 binary bundle, walk its
// chunks from the gateway, decode the items one at a time, and stream
// them to a JSON array sink.
package dump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/arweave-tools/ardump/lib/ans104"
	"github.com/arweave-tools/ardump/lib/arid"
	"github.com/arweave-tools/ardump/lib/gateway"
	"github.com/arweave-tools/ardump/lib/jsonarray"
)

// Gateway is the slice of the gateway client a dump needs. Tests
// substitute an in-memory implementation.
type Gateway interface {
	Transaction(ctx context.Context, id arid.ID) (*gateway.TxMetadata, error)
	TransactionOffset(ctx context.Context, id arid.ID) (*gateway.TxOffset, error)
	ChunkStream(offset *gateway.TxOffset) func(ctx context.Context) ([]byte, error)
}

// Summary reports what a completed dump produced.
type Summary struct {
	// Items is the number of DataItems written to the sink.
	Items int

	// DataBytes is the total size of the items' data payloads.
	DataBytes int64

	// TotalBytes is the size of the bundle transaction on the wire.
	TotalBytes int64
}

// Runner holds the collaborators for dump runs. The zero value is not
// usable; Gateway and Sink are required.
type Runner struct {
	// Gateway serves transaction metadata, offsets, and chunks.
	Gateway Gateway

	// Sink receives the JSON array output.
	Sink io.Writer

	// Logger receives progress events. Nil means slog.Default().
	Logger *slog.Logger

	// QueueDepth bounds the decode-to-write handoff queue. Values
	// < 1 use jsonarray.DefaultQueueDepth.
	QueueDepth int
}

// Run dumps the bundle transaction id to the sink. Bundle-ness is
// verified from the transaction's tags before any chunk is fetched;
// a non-bundle transaction fails with ans104.ErrNotABundle. On any
// decode or sink failure the output array is left unterminated so the
// partial result cannot be mistaken for a complete one.
func (r *Runner) Run(ctx context.Context, id arid.ID) (*Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("tx", id.String())

	metadata, err := r.Gateway.Transaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction metadata: %w", err)
	}
	if !metadata.IsBundle() {
		return nil, fmt.Errorf("transaction %s: %w", id, ans104.ErrNotABundle)
	}

	offset, err := r.Gateway.TransactionOffset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction offset: %w", err)
	}
	logger.Info("dumping bundle", "size", offset.Size)

	source := ans104.NewChunkSource(ans104.Fetch(r.Gateway.ChunkStream(offset)), offset.Size)
	decoder := ans104.NewDecoder(source)

	header, err := decoder.Header(ctx)
	if err != nil {
		return nil, fmt.Errorf("decoding bundle header: %w", err)
	}
	logger.Info("bundle header decoded", "items", header.ItemCount())

	writer := jsonarray.NewAsyncWriter(jsonarray.NewArrayWriter(r.Sink), r.QueueDepth)

	summary := &Summary{TotalBytes: offset.Size}
	for {
		item, err := decoder.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Abort()
			return nil, fmt.Errorf("decoding item %d: %w", summary.Items, err)
		}
		if err := writer.WriteItem(ctx, item); err != nil {
			writer.Abort()
			return nil, fmt.Errorf("writing item %d: %w", summary.Items, err)
		}
		summary.Items++
		summary.DataBytes += int64(len(item.Data))
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing output array: %w", err)
	}
	logger.Info("dump complete", "items", summary.Items, "data_bytes", summary.DataBytes)
	return summary, nil
}
