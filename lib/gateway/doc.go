// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the HTTP client for an Arweave-style gateway:
// transaction metadata, offset records, and chunk retrieval.
//
// The client covers exactly the two collaborator roles the decode
// pipeline needs: metadata lookup (to verify a transaction declares
// itself a bundle before any payload byte moves) and sequential chunk
// fetching (the byte supply for the streaming decoder). Chunk sizes
// are gateway-determined; the caller never chooses them.
//
// Transient failures (network errors, 5xx, 429) are retried a bounded
// number of times with clock-injected backoff. HTTP 202 means the
// gateway has accepted the transaction but cannot serve it yet; that
// surfaces as [ErrPending] without retry, since pending transactions
// routinely stay pending for minutes.
package gateway
