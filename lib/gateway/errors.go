// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrPending is returned when the gateway answers HTTP 202: the
// transaction is known but its data is not yet retrievable.
var ErrPending = errors.New("gateway: transaction data is not yet available")

// APIError represents a non-2xx response from the gateway.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// URL is the request URL that produced the response.
	URL string

	// Body is a bounded snippet of the response body, for diagnostics.
	Body string
}

func (err *APIError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("gateway: HTTP %d from %s", err.StatusCode, err.URL)
	}
	return fmt.Sprintf("gateway: HTTP %d from %s: %s", err.StatusCode, err.URL, err.Body)
}

// IsNotFound reports whether err is a gateway 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsPending reports whether err is the gateway's "accepted but not
// yet retrievable" response.
func IsPending(err error) bool {
	return errors.Is(err, ErrPending)
}

// retryable reports whether a response status is worth retrying:
// server-side failures and rate limiting.
func retryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
