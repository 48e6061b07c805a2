// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/arweave-tools/ardump/lib/ans104/ans104test"
	"github.com/arweave-tools/ardump/lib/arid"
)

func sourceFor(data []byte, chunkSize int) *ChunkSource {
	return NewChunkSource(fetchChunks(partition(data, chunkSize)...), int64(len(data)))
}

func TestParseHeaderEmptyBundle(t *testing.T) {
	data := ans104test.EncodeBundle(nil)
	header, err := parseHeader(context.Background(), sourceFor(data, 64))
	if err != nil {
		t.Fatalf("parseHeader failed: %v", err)
	}
	if header.ItemCount() != 0 {
		t.Errorf("ItemCount = %d, want 0", header.ItemCount())
	}
	if header.BodyStart != 8 {
		t.Errorf("BodyStart = %d, want 8", header.BodyStart)
	}
}

func TestParseHeaderEntryTable(t *testing.T) {
	var idA, idB arid.ID
	idA[0], idB[0] = 0x01, 0x02
	items := []ans104test.Item{
		{ID: idA, SignatureType: 2, Data: []byte("hello")},
		{ID: idB, SignatureType: 4, Data: []byte("world!")},
	}
	data := ans104test.EncodeBundle(items)

	header, err := parseHeader(context.Background(), sourceFor(data, 16))
	if err != nil {
		t.Fatalf("parseHeader failed: %v", err)
	}
	if header.ItemCount() != 2 {
		t.Fatalf("ItemCount = %d, want 2", header.ItemCount())
	}
	if header.Entries[0].ID != idA || header.Entries[1].ID != idB {
		t.Errorf("entry IDs = %s, %s", header.Entries[0].ID, header.Entries[1].ID)
	}
	wantBodyStart := int64(8 + 2*40)
	if header.BodyStart != wantBodyStart {
		t.Errorf("BodyStart = %d, want %d", header.BodyStart, wantBodyStart)
	}
	bodyLen := uint64(len(data)) - uint64(wantBodyStart)
	if header.Entries[0].Size+header.Entries[1].Size != bodyLen {
		t.Errorf("entry sizes %d+%d do not sum to body length %d",
			header.Entries[0].Size, header.Entries[1].Size, bodyLen)
	}
}

func TestParseHeaderSizeSumMismatch(t *testing.T) {
	data := ans104test.EncodeBundle([]ans104test.Item{
		{SignatureType: 2, Data: []byte("payload")},
	})
	// Corrupt the declared size of entry 0 (bytes 8..16).
	binary.LittleEndian.PutUint64(data[8:16], binary.LittleEndian.Uint64(data[8:16])+1)

	_, err := parseHeader(context.Background(), sourceFor(data, 64))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("got %v, want ErrMalformedHeader", err)
	}
}

func TestParseHeaderCountBeyondTransaction(t *testing.T) {
	// Declares 1000 items in a 48-byte transaction: the header alone
	// would exceed the declared total size.
	data := make([]byte, 48)
	binary.LittleEndian.PutUint64(data[:8], 1000)

	_, err := parseHeader(context.Background(), sourceFor(data, 64))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("got %v, want ErrMalformedHeader", err)
	}
}

func TestParseHeaderHugeCountDoesNotOverflow(t *testing.T) {
	data := make([]byte, 48)
	binary.LittleEndian.PutUint64(data[:8], ^uint64(0))

	_, err := parseHeader(context.Background(), sourceFor(data, 64))
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("got %v, want ErrMalformedHeader", err)
	}
}
