// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package ans104

import (
	"context"
	"fmt"
	"io"
)

// Fetch returns the next chunk of the transaction payload. Chunk
// boundaries are network-determined; callers must make no assumption
// about chunk sizes. A Fetch implementation performs its own bounded
// retries; an error it returns is treated as final for the run.
type Fetch func(ctx context.Context) ([]byte, error)

// ChunkSource is a pull-based byte source over a chunk supplier. It
// tracks the cumulative stream offset and assembles reads that cross
// chunk boundaries, so decoders never observe where chunks begin or
// end.
//
// The source holds only the unconsumed tail of the most recent chunk.
// A read that crosses a boundary allocates the assembled span; a read
// satisfied within the current chunk borrows from it.
type ChunkSource struct {
	fetch    Fetch
	total    int64
	buf      []byte // unconsumed window of the current chunk
	pos      int    // read position within buf
	consumed int64  // cumulative bytes handed to callers
}

// NewChunkSource creates a source that will deliver exactly total
// bytes from the supplier.
func NewChunkSource(fetch Fetch, total int64) *ChunkSource {
	return &ChunkSource{fetch: fetch, total: total}
}

// Offset returns the cumulative stream offset: the number of bytes
// consumed so far.
func (s *ChunkSource) Offset() int64 { return s.consumed }

// Remaining returns the number of bytes left before the declared
// total length is reached.
func (s *ChunkSource) Remaining() int64 { return s.total - s.consumed }

// Total returns the declared total length of the transaction payload.
func (s *ChunkSource) Total() int64 { return s.total }

// ReadFull returns the next n bytes of the stream, fetching as many
// chunks as needed. The returned slice is only valid until the next
// read. A request past the declared total length fails with
// [ErrUnexpectedEOF] before any fetch occurs; supplier failures and
// under-delivery surface as a [*TransportError].
func (s *ChunkSource) ReadFull(ctx context.Context, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ans104: negative read length %d", n)
	}
	if int64(n) > s.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, only %d remain of %d total",
			ErrUnexpectedEOF, n, s.consumed, s.Remaining(), s.total)
	}

	// Fast path: the span is already buffered.
	if len(s.buf)-s.pos >= n {
		out := s.buf[s.pos : s.pos+n]
		s.pos += n
		s.consumed += int64(n)
		return out, nil
	}

	// Slow path: assemble across one or more chunk fetches.
	out := make([]byte, n)
	filled := copy(out, s.buf[s.pos:])
	s.buf = nil
	s.pos = 0

	for filled < n {
		chunk, err := s.fetch(ctx)
		if err != nil {
			return nil, &TransportError{Offset: s.consumed + int64(filled), Err: err}
		}
		if len(chunk) == 0 {
			// The supplier has nothing left but the declared total has
			// not been delivered: network under-delivery.
			return nil, &TransportError{Offset: s.consumed + int64(filled), Err: io.ErrUnexpectedEOF}
		}

		copied := copy(out[filled:], chunk)
		filled += copied
		if copied < len(chunk) {
			s.buf = chunk
			s.pos = copied
		}
	}

	s.consumed += int64(n)
	return out, nil
}

// ReadByte returns the next single byte of the stream.
func (s *ChunkSource) ReadByte(ctx context.Context) (byte, error) {
	span, err := s.ReadFull(ctx, 1)
	if err != nil {
		return 0, err
	}
	return span[0], nil
}
