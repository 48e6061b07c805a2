// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package arid provides the identifier and byte-string types used
// throughout ardump: the 32-byte Arweave object ID and the opaque
// byte blob.
//
// Both render as unpadded base64url text, the conventional encoding
// for IDs, signatures, owners, tags, and data payloads in the Arweave
// ecosystem. The types implement encoding.TextMarshaler and
// encoding.TextUnmarshaler, so encoding/json handles them without
// extra glue.
package arid

import (
	"encoding/base64"
	"fmt"
)

// IDSize is the byte length of an Arweave object identifier. Both
// transaction IDs and DataItem IDs are 32 bytes.
const IDSize = 32

// ID is a 32-byte Arweave object identifier: a transaction ID, a
// DataItem ID from a bundle's entry table, or a DataItem target.
type ID [IDSize]byte

// Parse decodes an ID from its unpadded base64url text form.
func Parse(text string) (ID, error) {
	var id ID
	decoded, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		return id, fmt.Errorf("arid: invalid base64url ID %q: %w", text, err)
	}
	if len(decoded) != IDSize {
		return id, fmt.Errorf("arid: ID %q decodes to %d bytes, want %d", text, len(decoded), IDSize)
	}
	copy(id[:], decoded)
	return id, nil
}

// FromBytes builds an ID from a raw 32-byte slice.
func FromBytes(raw []byte) (ID, error) {
	var id ID
	if len(raw) != IDSize {
		return id, fmt.Errorf("arid: ID is %d bytes, want %d", len(raw), IDSize)
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the unpadded base64url form of the ID.
func (id ID) String() string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// IsZero reports whether the ID is all zero bytes.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Blob is an opaque byte string (signature, owner key, anchor, tag
// name or value, data payload) that renders as unpadded base64url in
// JSON. A zero-length Blob renders as "".
type Blob []byte

// String returns the unpadded base64url form of the blob.
func (b Blob) String() string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// MarshalText implements encoding.TextMarshaler.
func (b Blob) MarshalText() ([]byte, error) {
	encoded := make([]byte, base64.RawURLEncoding.EncodedLen(len(b)))
	base64.RawURLEncoding.Encode(encoded, b)
	return encoded, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Blob) UnmarshalText(text []byte) error {
	decoded := make([]byte, base64.RawURLEncoding.DecodedLen(len(text)))
	n, err := base64.RawURLEncoding.Decode(decoded, text)
	if err != nil {
		return fmt.Errorf("arid: invalid base64url blob: %w", err)
	}
	*b = decoded[:n]
	return nil
}
