// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonarray emits a JSON array incrementally, one element at a
// time, so a dump never holds more than one element in memory. The
// AsyncWriter variant moves the actual marshalling and I/O onto a
// dedicated goroutine behind a bounded queue.
package jsonarray

import (
	"encoding/json"
	"fmt"
	"io"
)

// ArrayWriter writes a JSON array to an underlying writer element by
// element. Elements are pretty-printed with two-space indentation.
// The zero value is not usable; construct with NewArrayWriter.
//
// ArrayWriter is not safe for concurrent use. Wrap it in an
// AsyncWriter when elements are produced on a different goroutine.
type ArrayWriter struct {
	w      io.Writer
	opened bool
	closed bool
	count  int
}

// NewArrayWriter returns an ArrayWriter targeting w. Nothing is
// written until Open, WriteItem, or Close is called.
func NewArrayWriter(w io.Writer) *ArrayWriter {
	return &ArrayWriter{w: w}
}

// Open writes the opening bracket. Calling it is optional: WriteItem
// and Close open the array on demand. Open exists so callers can
// surface output I/O errors before starting an expensive decode.
func (a *ArrayWriter) Open() error {
	if a.opened {
		return nil
	}
	if a.closed {
		return fmt.Errorf("jsonarray: write after Close")
	}
	if _, err := io.WriteString(a.w, "[\n"); err != nil {
		return fmt.Errorf("writing array opening: %w", err)
	}
	a.opened = true
	return nil
}

// WriteItem marshals v and appends it to the array. The element is
// marshalled completely before any byte of it reaches the underlying
// writer, so a marshalling failure leaves the output untouched.
func (a *ArrayWriter) WriteItem(v any) error {
	if a.closed {
		return fmt.Errorf("jsonarray: write after Close")
	}
	encoded, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return fmt.Errorf("marshalling array element %d: %w", a.count, err)
	}
	if err := a.Open(); err != nil {
		return err
	}

	separator := "  "
	if a.count > 0 {
		separator = ",\n  "
	}
	if _, err := io.WriteString(a.w, separator); err != nil {
		return fmt.Errorf("writing element separator: %w", err)
	}
	if _, err := a.w.Write(encoded); err != nil {
		return fmt.Errorf("writing array element %d: %w", a.count, err)
	}
	a.count++
	return nil
}

// Count reports how many elements have been written so far.
func (a *ArrayWriter) Count() int {
	return a.count
}

// Close terminates the array. An array with no elements renders as
// the literal []. Close is idempotent.
func (a *ArrayWriter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if !a.opened {
		if _, err := io.WriteString(a.w, "[]\n"); err != nil {
			return fmt.Errorf("writing empty array: %w", err)
		}
		return nil
	}
	if _, err := io.WriteString(a.w, "\n]\n"); err != nil {
		return fmt.Errorf("writing array closing: %w", err)
	}
	return nil
}
