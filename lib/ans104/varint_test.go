// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arweave-tools/ardump/lib/ans104/ans104test"
)

func TestVarintDecode(t *testing.T) {
	cases := []struct {
		encoded []byte
		want    int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, -1},
		{[]byte{0x02}, 1},
		{[]byte{0x03}, -2},
		{[]byte{0x7E}, 63},
		{[]byte{0x7F}, -64},
		{[]byte{0x80, 0x01}, 64},
		{[]byte{0xAC, 0x02}, 150},
	}
	for _, tc := range cases {
		r := &tagRegion{data: tc.encoded}
		got, err := r.readVarint()
		if err != nil {
			t.Fatalf("readVarint(%x) failed: %v", tc.encoded, err)
		}
		if got != tc.want {
			t.Errorf("readVarint(%x) = %d, want %d", tc.encoded, got, tc.want)
		}
		if r.pos != len(tc.encoded) {
			t.Errorf("readVarint(%x) consumed %d bytes, want %d", tc.encoded, r.pos, len(tc.encoded))
		}
	}
}

func TestVarintRoundtrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, 300, 1 << 20, -(1 << 33), 1<<62 - 1, -(1 << 62)}
	for _, v := range values {
		encoded := ans104test.AppendVarint(nil, v)
		r := &tagRegion{data: encoded}
		got, err := r.readVarint()
		if err != nil {
			t.Fatalf("readVarint(%d as %x) failed: %v", v, encoded, err)
		}
		if got != v {
			t.Errorf("round-trip %d → %d", v, got)
		}
	}
}

func TestVarintTruncated(t *testing.T) {
	// Every byte carries the continuation bit, so the region ends
	// mid-sequence. This must be truncation, not a malformed varint.
	r := &tagRegion{data: []byte{0x80, 0x80}}
	_, err := r.readVarint()
	if !errors.Is(err, ErrTruncatedVarint) {
		t.Errorf("got %v, want ErrTruncatedVarint", err)
	}

	r = &tagRegion{data: nil}
	if _, err := r.readVarint(); !errors.Is(err, ErrTruncatedVarint) {
		t.Errorf("empty region: got %v, want ErrTruncatedVarint", err)
	}
}

func TestVarintOverlong(t *testing.T) {
	// Ten continuation bytes followed by more: exceeds 64 bits.
	overlong := bytes.Repeat([]byte{0x80}, 10)
	overlong = append(overlong, 0x01)
	r := &tagRegion{data: overlong}
	if _, err := r.readVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("got %v, want ErrMalformedVarint", err)
	}

	// Tenth byte too large for the remaining bit.
	tooBig := bytes.Repeat([]byte{0x80}, 9)
	tooBig = append(tooBig, 0x02)
	r = &tagRegion{data: tooBig}
	if _, err := r.readVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("got %v, want ErrMalformedVarint", err)
	}
}

func TestDecodeTags(t *testing.T) {
	tags := []ans104test.Tag{
		{Name: "Content-Type", Value: "text/plain"},
		{Name: "App-Name", Value: "ardump-test"},
	}
	region := ans104test.EncodeTags(tags)

	decoded, err := decodeTags(region, 2)
	if err != nil {
		t.Fatalf("decodeTags failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d tags, want 2", len(decoded))
	}
	for i, tag := range tags {
		if string(decoded[i].Name) != tag.Name || string(decoded[i].Value) != tag.Value {
			t.Errorf("tag %d = (%s, %s), want (%s, %s)",
				i, decoded[i].Name, decoded[i].Value, tag.Name, tag.Value)
		}
	}
}

func TestDecodeTagsEmpty(t *testing.T) {
	decoded, err := decodeTags(nil, 0)
	if err != nil {
		t.Fatalf("decodeTags failed: %v", err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("decoded = %v, want empty non-nil list", decoded)
	}

	if _, err := decodeTags(nil, 3); !errors.Is(err, ErrTagCountMismatch) {
		t.Errorf("empty region with declared tags: got %v, want ErrTagCountMismatch", err)
	}
}

func TestDecodeTagsNegativeBlockCount(t *testing.T) {
	// Avro writers may emit a negative block count followed by the
	// block's byte size.
	var items []byte
	items = ans104test.AppendVarint(items, 1) // "a"
	items = append(items, 'a')
	items = ans104test.AppendVarint(items, 1) // "b"
	items = append(items, 'b')

	var region []byte
	region = ans104test.AppendVarint(region, -1)
	region = ans104test.AppendVarint(region, int64(len(items)))
	region = append(region, items...)
	region = ans104test.AppendVarint(region, 0)

	decoded, err := decodeTags(region, 1)
	if err != nil {
		t.Fatalf("decodeTags failed: %v", err)
	}
	if len(decoded) != 1 || string(decoded[0].Name) != "a" || string(decoded[0].Value) != "b" {
		t.Errorf("decoded = %v, want one (a, b) tag", decoded)
	}
}

func TestDecodeTagsCountMismatch(t *testing.T) {
	region := ans104test.EncodeTags([]ans104test.Tag{{Name: "n", Value: "v"}})
	if _, err := decodeTags(region, 2); !errors.Is(err, ErrTagCountMismatch) {
		t.Errorf("got %v, want ErrTagCountMismatch", err)
	}
}

func TestDecodeTagsTrailingBytes(t *testing.T) {
	region := ans104test.EncodeTags([]ans104test.Tag{{Name: "n", Value: "v"}})
	region = append(region, 0xFF)
	if _, err := decodeTags(region, 1); !errors.Is(err, ErrTagLengthMismatch) {
		t.Errorf("got %v, want ErrTagLengthMismatch", err)
	}
}

func TestDecodeTagsStringOverrunsRegion(t *testing.T) {
	var region []byte
	region = ans104test.AppendVarint(region, 1)  // one tag
	region = ans104test.AppendVarint(region, 40) // name length beyond region end
	region = append(region, 'x')
	if _, err := decodeTags(region, 1); !errors.Is(err, ErrTagLengthMismatch) {
		t.Errorf("got %v, want ErrTagLengthMismatch", err)
	}
}

func TestDecodeTagsTruncatedMidVarint(t *testing.T) {
	// Region ends in the middle of a length varint.
	region := []byte{0x02, 0x80}
	if _, err := decodeTags(region, 1); !errors.Is(err, ErrTruncatedVarint) {
		t.Errorf("got %v, want ErrTruncatedVarint", err)
	}
}
