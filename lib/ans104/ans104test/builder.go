// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package ans104test builds synthetic binary bundles for tests. It is
// a deliberately independent encoder: it shares no code with the
// decoder in lib/ans104, so round-trip tests exercise the real wire
// format rather than a shared implementation detail.
package ans104test

import (
	"encoding/binary"
	"fmt"

	"github.com/arweave-tools/ardump/lib/arid"
)

// Tag is one name/value pair to encode into an item's tag region.
type Tag struct {
	Name  string
	Value string
}

// Item describes one DataItem to encode.
type Item struct {
	// ID is the entry-table identifier. Zero is fine for tests that
	// do not care.
	ID arid.ID

	// SignatureType selects the signing scheme (1..4). The builder
	// fills Signature and Owner with deterministic padding of the
	// scheme's fixed lengths unless explicit bytes are given.
	SignatureType uint16

	// Signature and Owner override the generated padding when set.
	Signature []byte
	Owner     []byte

	Target *arid.ID
	Anchor []byte // must be 32 bytes when set

	Tags []Tag
	Data []byte
}

// signature/owner lengths by type code, mirroring the wire format.
var fieldLengths = map[uint16][2]int{
	1: {512, 512},
	2: {64, 32},
	3: {65, 65},
	4: {64, 32},
}

// EncodeBundle encodes a complete bundle: count, entry table, then
// each item body.
func EncodeBundle(items []Item) []byte {
	bodies := make([][]byte, len(items))
	for i, item := range items {
		bodies[i] = EncodeItem(item)
	}

	var out []byte
	out = appendUint64(out, uint64(len(items)))
	for i, item := range items {
		out = appendUint64(out, uint64(len(bodies[i])))
		out = append(out, item.ID[:]...)
	}
	for _, body := range bodies {
		out = append(out, body...)
	}
	return out
}

// EncodeItem encodes one item body.
func EncodeItem(item Item) []byte {
	lengths, ok := fieldLengths[item.SignatureType]
	if !ok {
		// Unknown codes are allowed so tests can produce invalid
		// bundles; signature/owner are emitted as given.
		lengths = [2]int{len(item.Signature), len(item.Owner)}
	}

	var out []byte
	out = binary.LittleEndian.AppendUint16(out, item.SignatureType)
	out = append(out, padded(item.Signature, lengths[0], 0xA5)...)
	out = append(out, padded(item.Owner, lengths[1], 0x5A)...)

	if item.Target != nil {
		out = append(out, 1)
		out = append(out, item.Target[:]...)
	} else {
		out = append(out, 0)
	}

	if item.Anchor != nil {
		if len(item.Anchor) != 32 {
			panic(fmt.Sprintf("ans104test: anchor must be 32 bytes, got %d", len(item.Anchor)))
		}
		out = append(out, 1)
		out = append(out, item.Anchor...)
	} else {
		out = append(out, 0)
	}

	region := EncodeTags(item.Tags)
	out = appendUint64(out, uint64(len(item.Tags)))
	out = appendUint64(out, uint64(len(region)))
	out = append(out, region...)

	out = append(out, item.Data...)
	return out
}

// EncodeTags encodes a tag list in the Avro block-array form: one
// block with a positive count, then a zero terminator. An empty list
// encodes to an empty region (count and byte length both zero at the
// item level).
func EncodeTags(tags []Tag) []byte {
	if len(tags) == 0 {
		return nil
	}
	var out []byte
	out = AppendVarint(out, int64(len(tags)))
	for _, tag := range tags {
		out = AppendVarint(out, int64(len(tag.Name)))
		out = append(out, tag.Name...)
		out = AppendVarint(out, int64(len(tag.Value)))
		out = append(out, tag.Value...)
	}
	out = AppendVarint(out, 0)
	return out
}

// AppendVarint appends the zigzag varint encoding of v.
func AppendVarint(out []byte, v int64) []byte {
	raw := uint64(v<<1) ^ uint64(v>>63)
	for raw >= 0x80 {
		out = append(out, byte(raw)|0x80)
		raw >>= 7
	}
	return append(out, byte(raw))
}

func appendUint64(out []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(out, v)
}

func padded(explicit []byte, length int, fill byte) []byte {
	if explicit != nil {
		return explicit
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = fill
	}
	return out
}
