// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/arweave-tools/ardump/lib/arid"
)

// SignatureType identifies the signing scheme of a DataItem. The code
// determines the fixed byte lengths of the signature and owner fields.
type SignatureType uint16

// Recognized signature types.
const (
	SignatureArweave  SignatureType = 1
	SignatureED25519  SignatureType = 2
	SignatureEthereum SignatureType = 3
	SignatureSolana   SignatureType = 4
)

type signatureParams struct {
	name     string
	sigLen   int
	ownerLen int
}

var signatureTable = map[SignatureType]signatureParams{
	SignatureArweave:  {name: "arweave", sigLen: 512, ownerLen: 512},
	SignatureED25519:  {name: "ed25519", sigLen: 64, ownerLen: 32},
	SignatureEthereum: {name: "ethereum", sigLen: 65, ownerLen: 65},
	SignatureSolana:   {name: "solana", sigLen: 64, ownerLen: 32},
}

// Name returns the conventional scheme name, or "unknown" for an
// unrecognized code.
func (t SignatureType) Name() string {
	if params, ok := signatureTable[t]; ok {
		return params.name
	}
	return "unknown"
}

// anchorSize is the fixed byte length of a DataItem anchor.
const anchorSize = 32

// Tag is one name/value pair from a DataItem's tag list. Both sides
// are opaque byte strings; order within the list is significant and
// preserved as encoded.
type Tag struct {
	Name  arid.Blob `json:"name"`
	Value arid.Blob `json:"value"`
}

// DataItem is one decoded bundle item. Field values are owned copies,
// independent of the source's chunk buffers; an item is created
// during its decode step and released once serialized.
type DataItem struct {
	ID            arid.ID       `json:"id"`
	SignatureType SignatureType `json:"signature_type"`
	Signature     arid.Blob     `json:"signature"`
	Owner         arid.Blob     `json:"owner"`
	Target        *arid.ID      `json:"target"`
	Anchor        *arid.Blob    `json:"anchor"`
	Tags          []Tag         `json:"tags"`
	Data          arid.Blob     `json:"data"`
}

// itemReader bounds all reads for one item by the size declared in
// the bundle's entry table, so a corrupt item cannot consume bytes
// belonging to the next one.
type itemReader struct {
	src       *ChunkSource
	remaining uint64
}

// readFull reads n bytes of the item's budget. A read that would
// exceed the budget fails with [ErrItemOverrun] without consuming
// anything.
func (r *itemReader) readFull(ctx context.Context, n uint64, field string) ([]byte, error) {
	if n > r.remaining {
		return nil, fmt.Errorf("%w: %s needs %d bytes, only %d remain of the item's declared size",
			ErrItemOverrun, field, n, r.remaining)
	}
	span, err := r.src.ReadFull(ctx, int(n))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	r.remaining -= n
	return span, nil
}

// readOptional reads a one-byte presence flag and, when set, the
// fixed-length field behind it. Presence is governed solely by the
// flag, never inferred from lengths.
func (r *itemReader) readOptional(ctx context.Context, size uint64, field string) ([]byte, error) {
	flagSpan, err := r.readFull(ctx, 1, field+" presence flag")
	if err != nil {
		return nil, err
	}
	switch flagSpan[0] {
	case 0:
		return nil, nil
	case 1:
		return r.readFull(ctx, size, field)
	default:
		return nil, fmt.Errorf("%s presence flag must be 0 or 1, got %d", field, flagSpan[0])
	}
}

// decodeItem decodes one item body of exactly entry.Size bytes from
// the source. Field order is fixed: signature type, signature, owner,
// optional target, optional anchor, tag count, tag byte length, tag
// array, then the data payload, whose length is derived as whatever
// remains of the declared size.
func decodeItem(ctx context.Context, src *ChunkSource, entry BundleEntry) (*DataItem, error) {
	r := &itemReader{src: src, remaining: entry.Size}

	codeSpan, err := r.readFull(ctx, 2, "signature type")
	if err != nil {
		return nil, err
	}
	code := SignatureType(binary.LittleEndian.Uint16(codeSpan))
	params, ok := signatureTable[code]
	if !ok {
		return nil, fmt.Errorf("%w: code %d", ErrUnknownSignatureType, uint16(code))
	}

	sigSpan, err := r.readFull(ctx, uint64(params.sigLen), "signature")
	if err != nil {
		return nil, err
	}
	signature := cloneBlob(sigSpan)

	ownerSpan, err := r.readFull(ctx, uint64(params.ownerLen), "owner")
	if err != nil {
		return nil, err
	}
	owner := cloneBlob(ownerSpan)

	var target *arid.ID
	targetSpan, err := r.readOptional(ctx, arid.IDSize, "target")
	if err != nil {
		return nil, err
	}
	if targetSpan != nil {
		id, err := arid.FromBytes(targetSpan)
		if err != nil {
			return nil, fmt.Errorf("reading target: %w", err)
		}
		target = &id
	}

	var anchor *arid.Blob
	anchorSpan, err := r.readOptional(ctx, anchorSize, "anchor")
	if err != nil {
		return nil, err
	}
	if anchorSpan != nil {
		blob := cloneBlob(anchorSpan)
		anchor = &blob
	}

	countSpan, err := r.readFull(ctx, 8, "tag count")
	if err != nil {
		return nil, err
	}
	tagCount := binary.LittleEndian.Uint64(countSpan)

	lenSpan, err := r.readFull(ctx, 8, "tag byte length")
	if err != nil {
		return nil, err
	}
	tagBytes := binary.LittleEndian.Uint64(lenSpan)

	region, err := r.readFull(ctx, tagBytes, "tag region")
	if err != nil {
		return nil, err
	}
	tags, err := decodeTags(region, tagCount)
	if err != nil {
		return nil, err
	}

	// Everything left of the declared size is the data payload. The
	// length is derived, never encoded; readFull's budget accounting
	// makes a negative length impossible by construction.
	dataSpan, err := r.readFull(ctx, r.remaining, "data")
	if err != nil {
		return nil, err
	}

	return &DataItem{
		ID:            entry.ID,
		SignatureType: code,
		Signature:     signature,
		Owner:         owner,
		Target:        target,
		Anchor:        anchor,
		Tags:          tags,
		Data:          cloneBlob(dataSpan),
	}, nil
}

// cloneBlob copies a span borrowed from the source into an owned blob.
func cloneBlob(span []byte) arid.Blob {
	out := make(arid.Blob, len(span))
	copy(out, span)
	return out
}
