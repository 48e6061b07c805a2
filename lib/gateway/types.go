// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// Bundle indicator tags. A transaction is an ANS-104 binary bundle
// when both are present with these exact values.
const (
	BundleFormatTag    = "Bundle-Format"
	BundleVersionTag   = "Bundle-Version"
	bundleFormatValue  = "binary"
	bundleVersionValue = "2.0.0"
)

// Tag is one decoded metadata tag of a transaction. Unlike DataItem
// tags, transaction tags are conventionally UTF-8 and are decoded to
// strings here for matching.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TxMetadata is the subset of a transaction record the dump pipeline
// needs: the format marker and the decoded tag list.
type TxMetadata struct {
	// Format is the transaction format version (2 for chunked
	// transactions).
	Format int `json:"format"`

	// DataSize is the declared payload size in bytes.
	DataSize int64 `json:"data_size"`

	// Tags is the transaction's tag list, in encoded order.
	Tags []Tag `json:"tags"`
}

// Tag returns the value of the first tag with the given name.
func (m *TxMetadata) Tag(name string) (string, bool) {
	for _, tag := range m.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// IsBundle reports whether the transaction declares itself an ANS-104
// binary bundle.
func (m *TxMetadata) IsBundle() bool {
	format, ok := m.Tag(BundleFormatTag)
	if !ok || format != bundleFormatValue {
		return false
	}
	version, ok := m.Tag(BundleVersionTag)
	return ok && version == bundleVersionValue
}

// TxOffset is the gateway's offset record for a transaction: the
// payload size and the absolute offset of the payload's last byte in
// the weave.
type TxOffset struct {
	// Size is the transaction payload length in bytes.
	Size int64 `json:"size"`

	// Offset is the absolute offset of the payload's final byte.
	Offset int64 `json:"offset"`
}

// Start returns the absolute offset of the payload's first byte.
func (o *TxOffset) Start() int64 {
	return o.Offset - o.Size + 1
}

// flexInt64 decodes a JSON value that gateways serve either as a
// number or as a decimal string.
type flexInt64 int64

func (v *flexInt64) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	parsed, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("gateway: parsing %q as integer: %w", text, err)
	}
	*v = flexInt64(parsed)
	return nil
}
