// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"context"
	"fmt"
	"io"
)

// Decoder is a pull iterator over a bundle's DataItems. Create one
// with [NewDecoder], read the header with [Decoder.Header], then call
// [Decoder.Next] until it returns [io.EOF].
//
// Decoding is strictly sequential: each item's start depends on the
// exact offset at which the previous item ended. Any decode failure
// is terminal: the Decoder latches the error and returns it from
// every subsequent call.
type Decoder struct {
	src    *ChunkSource
	header *BundleHeader
	index  int   // next item to decode
	expect int64 // stream offset at which item index begins
	err    error // latched terminal error
}

// NewDecoder creates a decoder over src. The source must be
// positioned at the very start of the transaction payload.
func NewDecoder(src *ChunkSource) *Decoder {
	return &Decoder{src: src}
}

// Header decodes the bundle header on first call and returns the
// cached value afterwards.
func (d *Decoder) Header(ctx context.Context) (*BundleHeader, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.header != nil {
		return d.header, nil
	}

	header, err := parseHeader(ctx, d.src)
	if err != nil {
		d.err = &DecodeError{Offset: d.src.Offset(), Item: -1, Err: err}
		return nil, d.err
	}
	d.header = header
	d.expect = header.BodyStart
	return header, nil
}

// Next decodes and returns the next DataItem, or io.EOF once the
// declared item count is exhausted. The returned item is an owned
// value; the caller may hand it off and forget it.
func (d *Decoder) Next(ctx context.Context) (*DataItem, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, err := d.Header(ctx); err != nil {
		return nil, err
	}
	if d.index >= len(d.header.Entries) {
		return nil, io.EOF
	}

	entry := d.header.Entries[d.index]

	// Running-offset check: the source must be exactly at the offset
	// the entry table promises for this item. Drift here means an
	// earlier item was misparsed.
	if offset := d.src.Offset(); offset != d.expect {
		d.err = &DecodeError{
			Offset: offset,
			Item:   d.index,
			Err: fmt.Errorf("%w: item %d should begin at offset %d, source is at %d",
				ErrItemSizeMismatch, d.index, d.expect, offset),
		}
		return nil, d.err
	}

	item, err := decodeItem(ctx, d.src, entry)
	if err != nil {
		d.err = &DecodeError{Offset: d.src.Offset(), Item: d.index, Err: err}
		return nil, d.err
	}

	d.index++
	d.expect += int64(entry.Size)
	return item, nil
}
