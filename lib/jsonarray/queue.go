// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package jsonarray

import (
	"context"
	"fmt"
	"sync"
)

// DefaultQueueDepth is the AsyncWriter channel capacity used when the
// caller does not specify one.
const DefaultQueueDepth = 16

// AsyncWriter decouples element production from JSON encoding and
// output I/O. Elements flow through a bounded channel to a single
// writer goroutine, so production blocks (backpressure) when the
// writer falls behind rather than buffering without limit.
//
// The first sink error is latched: once the writer goroutine fails,
// every subsequent WriteItem and the final Close report that error.
// Elements already queued when the error occurs are drained and
// discarded so producers never block on a dead writer.
type AsyncWriter struct {
	array *ArrayWriter
	items chan any
	done  chan struct{}

	closeOnce sync.Once

	mu      sync.Mutex
	failed  error
	aborted bool
}

// NewAsyncWriter starts a writer goroutine targeting array. depth is
// the queue capacity; values < 1 fall back to DefaultQueueDepth.
func NewAsyncWriter(array *ArrayWriter, depth int) *AsyncWriter {
	if depth < 1 {
		depth = DefaultQueueDepth
	}
	w := &AsyncWriter{
		array: array,
		items: make(chan any, depth),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for item := range w.items {
		if w.err() != nil {
			// Drain without writing so producers unblock.
			continue
		}
		if err := w.array.WriteItem(item); err != nil {
			w.setErr(err)
		}
	}
}

func (w *AsyncWriter) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

func (w *AsyncWriter) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failed == nil {
		w.failed = err
	}
}

// WriteItem queues v for output. It blocks while the queue is full,
// honoring ctx cancellation, and returns the latched sink error if
// the writer goroutine has already failed.
func (w *AsyncWriter) WriteItem(ctx context.Context, v any) error {
	if err := w.err(); err != nil {
		return err
	}
	select {
	case w.items <- v:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queueing array element: %w", ctx.Err())
	}
}

// Close drains the queue, waits for the writer goroutine, and closes
// the JSON array. It returns the latched sink error, if any.
func (w *AsyncWriter) Close() error {
	w.closeOnce.Do(func() { close(w.items) })
	<-w.done

	w.mu.Lock()
	failed, aborted := w.failed, w.aborted
	w.mu.Unlock()
	if failed != nil {
		return failed
	}
	if aborted {
		return nil
	}
	return w.array.Close()
}

// Abort stops the writer without terminating the array, leaving the
// output visibly truncated. Used on the fatal-error path: a partial
// array must not parse as a complete result.
func (w *AsyncWriter) Abort() {
	w.mu.Lock()
	w.aborted = true
	w.mu.Unlock()
	w.closeOnce.Do(func() { close(w.items) })
	<-w.done
}
