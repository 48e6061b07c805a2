// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import "fmt"

// The tag region of a DataItem uses Avro binary encoding: zigzag
// varints for integers, length-prefixed byte strings, and a
// block-framed array (repeated blocks of "count, items...", where a
// negative count is followed by a block byte size and carries the
// absolute count, terminated by a block count of zero).
//
// The region's byte length is declared up front in the item header,
// so the whole region is read from the source in one span and decoded
// here from memory. Running out of region bytes mid-varint is
// truncation ([ErrTruncatedVarint]); a length that points outside the
// region is a region-length violation ([ErrTagLengthMismatch]).

// tagRegion is a cursor over a DataItem's declared tag bytes.
type tagRegion struct {
	data []byte
	pos  int
}

// readVarint decodes one zigzag-encoded varint: little-endian 7-bit
// groups, continuation flag in the high bit of each byte.
func (r *tagRegion) readVarint() (int64, error) {
	var raw uint64
	var shift uint
	for i := 0; ; i++ {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("%w: region ended after %d varint bytes", ErrTruncatedVarint, i)
		}
		b := r.data[r.pos]
		r.pos++

		if i == 9 && b > 0x01 {
			return 0, fmt.Errorf("%w: value exceeds 64 bits", ErrMalformedVarint)
		}
		raw |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		if i == 9 {
			return 0, fmt.Errorf("%w: continuation past 10 bytes", ErrMalformedVarint)
		}
		shift += 7
	}
	// Zigzag: interleaves signed values so small magnitudes stay small.
	return int64(raw>>1) ^ -int64(raw&1), nil
}

// readString decodes one length-prefixed byte string. The returned
// slice aliases the region buffer.
func (r *tagRegion) readString() ([]byte, error) {
	length, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative string length %d", ErrTagLengthMismatch, length)
	}
	if length > int64(len(r.data)-r.pos) {
		return nil, fmt.Errorf("%w: string of %d bytes exceeds %d remaining region bytes",
			ErrTagLengthMismatch, length, len(r.data)-r.pos)
	}
	s := r.data[r.pos : r.pos+int(length)]
	r.pos += int(length)
	return s, nil
}

// decodeTags decodes the block-framed tag array from region and
// verifies both declared axes: the list must contain exactly
// wantCount tags and consume exactly the region.
func decodeTags(region []byte, wantCount uint64) ([]Tag, error) {
	tags := []Tag{}
	if len(region) == 0 {
		if wantCount != 0 {
			return nil, fmt.Errorf("%w: declared %d tags but tag region is empty", ErrTagCountMismatch, wantCount)
		}
		return tags, nil
	}

	r := &tagRegion{data: region}
	for {
		blockCount, err := r.readVarint()
		if err != nil {
			return nil, err
		}
		if blockCount == 0 {
			break
		}
		if blockCount < 0 {
			// Negative count carries the absolute item count and is
			// followed by the block's byte size, which this decoder
			// does not need (it reads items sequentially anyway).
			if _, err := r.readVarint(); err != nil {
				return nil, err
			}
			blockCount = -blockCount
		}

		for i := int64(0); i < blockCount; i++ {
			name, err := r.readString()
			if err != nil {
				return nil, err
			}
			value, err := r.readString()
			if err != nil {
				return nil, err
			}
			tags = append(tags, Tag{Name: cloneBlob(name), Value: cloneBlob(value)})
		}
	}

	if r.pos != len(r.data) {
		return nil, fmt.Errorf("%w: tag array ended at byte %d of a %d-byte region",
			ErrTagLengthMismatch, r.pos, len(r.data))
	}
	if uint64(len(tags)) != wantCount {
		return nil, fmt.Errorf("%w: declared %d tags, decoded %d", ErrTagCountMismatch, wantCount, len(tags))
	}
	return tags, nil
}
