// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package ans104 implements a streaming decoder for the ANS-104
// binary bundle format: a transaction payload that packs multiple
// independently signed DataItems behind a size/ID entry table.
//
// The package is organized in layers:
//
//   - ChunkSource: a pull-based byte source over a chunk supplier.
//     Decoders request byte spans; the source fetches network chunks
//     on demand and assembles across chunk boundaries, so no decoder
//     ever observes where one chunk ends and the next begins.
//
//   - Primitives: the Avro-derived encodings used inside a DataItem's
//     tag region: zigzag varints with 7-bit continuation groups, and
//     block-framed arrays of length-prefixed strings.
//
//   - Header: the 8-byte little-endian item count followed by the
//     (size, id) entry table. Entry sizes must account for exactly
//     the item-body region of the transaction.
//
//   - DataItem: per-item field decoding (signature type, signature,
//     owner, optional target and anchor behind one-byte presence
//     flags, tags, derived-length data payload), bounded by the
//     entry's declared size.
//
//   - Decoder: the pull iterator tying the layers together. It keeps
//     a running offset check between items so a misparse is detected
//     at the item where it happened rather than corrupting every
//     following item silently.
//
// Memory discipline: the source holds at most one network chunk's
// worth of unconsumed bytes (plus assembly for a span that crosses a
// boundary), and the decoder materializes one DataItem at a time.
// Nothing in this package accumulates items or chunks.
//
// Every decode failure is wrapped in a [DecodeError] carrying the
// stream offset and item index. Truncated input (the stream ends
// mid-varint or mid-field) is reported distinctly from malformed
// input; the two must never be conflated, because the former is the
// source's concern (fetch more) and the latter is fatal.
package ans104
