// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/arweave-tools/ardump/lib/ans104"
	"github.com/arweave-tools/ardump/lib/ans104/ans104test"
	"github.com/arweave-tools/ardump/lib/arid"
	"github.com/arweave-tools/ardump/lib/gateway"
)

// fakeGateway serves one transaction from memory, walking its bytes
// in fixed-size chunks.
type fakeGateway struct {
	tags       []gateway.Tag
	bundle     []byte
	chunkSize  int
	chunkCalls int
}

func bundleTags() []gateway.Tag {
	return []gateway.Tag{
		{Name: "Bundle-Format", Value: "binary"},
		{Name: "Bundle-Version", Value: "2.0.0"},
	}
}

func (g *fakeGateway) Transaction(ctx context.Context, id arid.ID) (*gateway.TxMetadata, error) {
	return &gateway.TxMetadata{
		Format:   2,
		DataSize: int64(len(g.bundle)),
		Tags:     g.tags,
	}, nil
}

func (g *fakeGateway) TransactionOffset(ctx context.Context, id arid.ID) (*gateway.TxOffset, error) {
	return &gateway.TxOffset{
		Size:   int64(len(g.bundle)),
		Offset: 5000 + int64(len(g.bundle)) - 1,
	}, nil
}

func (g *fakeGateway) ChunkStream(offset *gateway.TxOffset) func(ctx context.Context) ([]byte, error) {
	pos := 0
	return func(ctx context.Context) ([]byte, error) {
		g.chunkCalls++
		if pos >= len(g.bundle) {
			return nil, nil
		}
		end := pos + g.chunkSize
		if end > len(g.bundle) {
			end = len(g.bundle)
		}
		chunk := g.bundle[pos:end]
		pos = end
		return chunk, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEndToEnd(t *testing.T) {
	target := arid.ID{9, 9, 9}
	bundle := ans104test.EncodeBundle([]ans104test.Item{
		{
			ID:            arid.ID{1},
			SignatureType: 1,
			Target:        &target,
			Tags:          []ans104test.Tag{{Name: "Content-Type", Value: "text/plain"}},
			Data:          []byte("hello bundle"),
		},
		{
			ID:            arid.ID{2},
			SignatureType: 2,
			Anchor:        bytes.Repeat([]byte{7}, 32),
			Data:          []byte{},
		},
		{
			ID:            arid.ID{3},
			SignatureType: 4,
			Data:          bytes.Repeat([]byte{0xCD}, 2000),
		},
	})

	fake := &fakeGateway{tags: bundleTags(), bundle: bundle, chunkSize: 100}
	var out bytes.Buffer
	runner := &Runner{Gateway: fake, Sink: &out, Logger: quietLogger()}

	summary, err := runner.Run(context.Background(), arid.ID{0xFF})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Items != 3 {
		t.Errorf("summary items = %d, want 3", summary.Items)
	}
	wantData := int64(len("hello bundle") + 0 + 2000)
	if summary.DataBytes != wantData {
		t.Errorf("summary data bytes = %d, want %d", summary.DataBytes, wantData)
	}
	if summary.TotalBytes != int64(len(bundle)) {
		t.Errorf("summary total bytes = %d, want %d", summary.TotalBytes, len(bundle))
	}

	var items []ans104.DataItem
	if err := json.Unmarshal(out.Bytes(), &items); err != nil {
		t.Fatalf("output is not a valid JSON array: %v\n%s", err, out.String())
	}
	if len(items) != 3 {
		t.Fatalf("output has %d items, want 3", len(items))
	}
	if items[0].ID != (arid.ID{1}) {
		t.Errorf("item 0 id = %s", items[0].ID)
	}
	if items[0].Target == nil || *items[0].Target != target {
		t.Errorf("item 0 target not preserved: %v", items[0].Target)
	}
	if string(items[0].Data) != "hello bundle" {
		t.Errorf("item 0 data = %q", items[0].Data)
	}
	if len(items[0].Tags) != 1 || string(items[0].Tags[0].Name) != "Content-Type" {
		t.Errorf("item 0 tags = %v", items[0].Tags)
	}
	if items[1].Anchor == nil {
		t.Error("item 1 anchor missing")
	}
	if items[2].SignatureType != ans104.SignatureSolana {
		t.Errorf("item 2 signature type = %d", items[2].SignatureType)
	}
}

func TestRunEmptyBundle(t *testing.T) {
	fake := &fakeGateway{
		tags:      bundleTags(),
		bundle:    ans104test.EncodeBundle(nil),
		chunkSize: 64,
	}
	var out bytes.Buffer
	runner := &Runner{Gateway: fake, Sink: &out, Logger: quietLogger()}

	summary, err := runner.Run(context.Background(), arid.ID{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Items != 0 {
		t.Errorf("summary items = %d, want 0", summary.Items)
	}
	if got := out.String(); got != "[]\n" {
		t.Errorf("empty bundle rendered %q, want %q", got, "[]\n")
	}
}

func TestRunRejectsNonBundleBeforeFetchingChunks(t *testing.T) {
	fake := &fakeGateway{
		tags:      []gateway.Tag{{Name: "Content-Type", Value: "image/png"}},
		bundle:    []byte("not a bundle"),
		chunkSize: 64,
	}
	var out bytes.Buffer
	runner := &Runner{Gateway: fake, Sink: &out, Logger: quietLogger()}

	_, err := runner.Run(context.Background(), arid.ID{})
	if !errors.Is(err, ans104.ErrNotABundle) {
		t.Fatalf("got %v, want ErrNotABundle", err)
	}
	if fake.chunkCalls != 0 {
		t.Errorf("%d chunks fetched for a non-bundle transaction", fake.chunkCalls)
	}
	if out.Len() != 0 {
		t.Errorf("non-bundle run produced output: %q", out.String())
	}
}

func TestRunDecodeFailureLeavesArrayUnterminated(t *testing.T) {
	bundle := ans104test.EncodeBundle([]ans104test.Item{
		{ID: arid.ID{1}, SignatureType: 2, Data: []byte("first")},
		{ID: arid.ID{2}, SignatureType: 2, Data: []byte("second")},
	})
	// Corrupt the second item's signature type so decoding fails
	// after the first item was already written.
	item0Start := 8 + 2*40
	item0Len := 2 + 64 + 32 + 1 + 1 + 8 + 8 + len("first")
	bundle[item0Start+item0Len] = 0xEE

	fake := &fakeGateway{tags: bundleTags(), bundle: bundle, chunkSize: 32}
	var out bytes.Buffer
	runner := &Runner{Gateway: fake, Sink: &out, Logger: quietLogger()}

	_, err := runner.Run(context.Background(), arid.ID{})
	if !errors.Is(err, ans104.ErrUnknownSignatureType) {
		t.Fatalf("got %v, want ErrUnknownSignatureType", err)
	}

	var items []ans104.DataItem
	if jsonErr := json.Unmarshal(out.Bytes(), &items); jsonErr == nil {
		t.Errorf("failed run produced a complete JSON array:\n%s", out.String())
	}
}
