// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response reading for the
// gateway client. Gateway JSON endpoints (transaction metadata,
// offsets, chunk envelopes) have known modest sizes; bounding every
// body read prevents a misbehaving or malicious server from forcing
// an unbounded allocation. Transaction payloads themselves never pass
// through these helpers; they arrive chunk by chunk through the
// decode pipeline.
package netutil

import "io"

// MaxResponseSize bounds JSON API response body reads: 16 MB. A chunk
// envelope carries at most 256 KiB of payload (~350 KB base64), so
// the bound is generous without permitting pathological responses.
const MaxResponseSize int64 = 16 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body and returns it as a
// string for diagnostic error messages. Read errors are ignored: a
// partial or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return string(data)
}
