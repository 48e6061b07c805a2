// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/arweave-tools/ardump/lib/arid"
)

// Header layout constants.
const (
	// headerCountSize is the 8-byte little-endian item count at the
	// front of every bundle.
	headerCountSize = 8

	// headerEntrySize is one entry in the table that follows the
	// count: an 8-byte little-endian item size and a 32-byte item ID.
	headerEntrySize = 8 + arid.IDSize
)

// BundleEntry is one row of the bundle's entry table: the byte size
// of an item body and the item's ID.
type BundleEntry struct {
	// Size is the exact byte length of the item's body in the stream.
	Size uint64

	// ID is the DataItem's self-identifier.
	ID arid.ID
}

// BundleHeader is the decoded front matter of a bundle: the item
// count and the ordered entry table. It is created once per run and
// immutable thereafter.
type BundleHeader struct {
	// Entries lists the (size, id) descriptors in stream order. Its
	// length is the bundle's declared item count.
	Entries []BundleEntry

	// BodyStart is the stream offset at which item bodies begin:
	// the total header byte length.
	BodyStart int64
}

// ItemCount returns the number of items the bundle declares.
func (h *BundleHeader) ItemCount() int { return len(h.Entries) }

// parseHeader reads the item count and entry table from the front of
// the stream and validates the size accounting: the header must fit
// within the declared total, and the entry sizes must sum to exactly
// the item-body region (total minus header).
func parseHeader(ctx context.Context, src *ChunkSource) (*BundleHeader, error) {
	countSpan, err := src.ReadFull(ctx, headerCountSize)
	if err != nil {
		return nil, fmt.Errorf("reading item count: %w", err)
	}
	count := binary.LittleEndian.Uint64(countSpan)

	// Bound the header before reading it: count*entrySize must not
	// overflow and the header must fit inside the transaction.
	if count > uint64(src.Total())/headerEntrySize {
		return nil, fmt.Errorf("%w: %d entries need more than the %d-byte transaction",
			ErrMalformedHeader, count, src.Total())
	}
	headerLen := int64(headerCountSize) + int64(count)*headerEntrySize
	if headerLen > src.Total() {
		return nil, fmt.Errorf("%w: header of %d bytes exceeds transaction size %d",
			ErrMalformedHeader, headerLen, src.Total())
	}

	entries := make([]BundleEntry, count)
	var bodySum uint64
	for i := range entries {
		span, err := src.ReadFull(ctx, headerEntrySize)
		if err != nil {
			return nil, fmt.Errorf("reading entry %d: %w", i, err)
		}
		size := binary.LittleEndian.Uint64(span[:8])
		id, err := arid.FromBytes(span[8:])
		if err != nil {
			return nil, fmt.Errorf("reading entry %d id: %w", i, err)
		}
		entries[i] = BundleEntry{Size: size, ID: id}

		next := bodySum + size
		if next < bodySum {
			return nil, fmt.Errorf("%w: entry sizes overflow", ErrMalformedHeader)
		}
		bodySum = next
	}

	bodyLen := uint64(src.Total() - headerLen)
	if bodySum != bodyLen {
		return nil, fmt.Errorf("%w: entry sizes sum to %d but item-body region is %d bytes",
			ErrMalformedHeader, bodySum, bodyLen)
	}

	return &BundleHeader{Entries: entries, BodyStart: headerLen}, nil
}
