// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"errors"
	"fmt"
)

// Decode-layer sentinel errors. All are fatal for the run: the stream
// is strictly ordered, so a misparsed item invalidates the offset of
// every following item. Match with errors.Is through the [DecodeError]
// wrapper.
var (
	// ErrNotABundle is returned when a transaction's metadata lacks
	// the bundle format/version tags. Raised before any payload byte
	// is fetched.
	ErrNotABundle = errors.New("ans104: transaction is not a binary bundle")

	// ErrMalformedHeader is returned when the entry table cannot be
	// trusted: the header itself extends past the declared transaction
	// size, or the entry sizes do not sum to the item-body length.
	ErrMalformedHeader = errors.New("ans104: malformed bundle header")

	// ErrItemSizeMismatch is returned when an item's decoded fields
	// are inconsistent with the size declared for it in the entry
	// table, or when the stream offset drifts out of sync between
	// items.
	ErrItemSizeMismatch = errors.New("ans104: item size mismatch")

	// ErrItemOverrun is returned when a nested field's declared length
	// would read past the end of the item's declared size, which would
	// consume bytes belonging to the next item.
	ErrItemOverrun = errors.New("ans104: field overruns item boundary")

	// ErrUnknownSignatureType is returned for a signature type code
	// outside the recognized set.
	ErrUnknownSignatureType = errors.New("ans104: unknown signature type")

	// ErrTagCountMismatch is returned when the decoded tag list does
	// not contain exactly the declared number of tags.
	ErrTagCountMismatch = errors.New("ans104: tag count mismatch")

	// ErrTagLengthMismatch is returned when the tag array does not
	// consume exactly the declared tag byte length.
	ErrTagLengthMismatch = errors.New("ans104: tag byte length mismatch")

	// ErrTruncatedVarint is returned when input runs out in the middle
	// of a varint's continuation sequence. This is distinct from a
	// malformed varint: truncation means the region ended too early,
	// not that the encoding is invalid.
	ErrTruncatedVarint = errors.New("ans104: truncated varint")

	// ErrMalformedVarint is returned for a varint whose continuation
	// sequence exceeds the 64-bit range.
	ErrMalformedVarint = errors.New("ans104: malformed varint")

	// ErrUnexpectedEOF is returned when a decoder requests bytes past
	// the transaction's declared total length.
	ErrUnexpectedEOF = errors.New("ans104: read past end of transaction data")
)

// TransportError wraps a chunk supplier failure with the stream offset
// at which the bytes were needed. The supplier is expected to have
// already exhausted its own bounded retries before returning an error.
type TransportError struct {
	// Offset is the cumulative stream offset the failed fetch was
	// meant to satisfy.
	Offset int64

	// Err is the underlying supplier error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ans104: fetching chunk at stream offset %d: %v", e.Offset, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError wraps any failure from the decode pipeline with the
// position at which it occurred. Item is the zero-based index of the
// item being decoded, or -1 for header decoding.
type DecodeError struct {
	// Offset is the cumulative stream offset at the time of failure.
	Offset int64

	// Item is the index of the item being decoded, -1 for the header.
	Item int

	// Err is the underlying decode or transport error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("ans104: decoding bundle header at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("ans104: decoding item %d at offset %d: %v", e.Item, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
