// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/arweave-tools/ardump/lib/arid"
	"github.com/arweave-tools/ardump/lib/clock"
	"github.com/arweave-tools/ardump/lib/netutil"
)

// DefaultBaseURL is the public Arweave gateway.
const DefaultBaseURL = "https://arweave.net"

// Default retry policy for transient failures.
const (
	defaultRetryAttempts = 1
	defaultRetryBackoff  = 500 * time.Millisecond
)

// Config holds configuration for creating a gateway Client.
type Config struct {
	// BaseURL is the gateway root. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations for retry backoff. Defaults to
	// clock.Real(). Inject clock.Fake in tests.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// RetryAttempts is the number of automatic retries per request
	// after a transient failure. Defaults to 1; set negative for none.
	RetryAttempts int

	// RetryBackoff is the base backoff between retries; attempt n
	// waits n times this long. Defaults to 500ms.
	RetryBackoff time.Duration
}

// Client is a typed gateway client. It is safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	clock         clock.Clock
	logger        *slog.Logger
	retryAttempts int
	retryBackoff  time.Duration
}

// NewClient creates a gateway client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("gateway: base URL %q must be http or https", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := config.RetryAttempts
	if attempts == 0 {
		attempts = defaultRetryAttempts
	} else if attempts < 0 {
		attempts = 0
	}
	backoff := config.RetryBackoff
	if backoff == 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		baseURL:       parsed.String(),
		httpClient:    httpClient,
		clock:         clk,
		logger:        logger,
		retryAttempts: attempts,
		retryBackoff:  backoff,
	}, nil
}

// txJSON is the wire form of a transaction record. Tag names and
// values arrive base64url-encoded.
type txJSON struct {
	Format   int       `json:"format"`
	DataSize flexInt64 `json:"data_size"`
	Tags     []struct {
		Name  arid.Blob `json:"name"`
		Value arid.Blob `json:"value"`
	} `json:"tags"`
}

// Transaction fetches and decodes a transaction's metadata record.
func (c *Client) Transaction(ctx context.Context, id arid.ID) (*TxMetadata, error) {
	body, err := c.get(ctx, "/tx/"+id.String())
	if err != nil {
		return nil, err
	}

	var wire txJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gateway: decoding transaction %s: %w", id, err)
	}

	metadata := &TxMetadata{
		Format:   wire.Format,
		DataSize: int64(wire.DataSize),
		Tags:     make([]Tag, len(wire.Tags)),
	}
	for i, tag := range wire.Tags {
		metadata.Tags[i] = Tag{Name: string(tag.Name), Value: string(tag.Value)}
	}
	return metadata, nil
}

// offsetJSON is the wire form of an offset record; both fields are
// served as decimal strings by mainline gateways.
type offsetJSON struct {
	Size   flexInt64 `json:"size"`
	Offset flexInt64 `json:"offset"`
}

// TransactionOffset fetches the transaction's position in the weave:
// payload size and the absolute offset of its final byte.
func (c *Client) TransactionOffset(ctx context.Context, id arid.ID) (*TxOffset, error) {
	body, err := c.get(ctx, "/tx/"+id.String()+"/offset")
	if err != nil {
		return nil, err
	}

	var wire offsetJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gateway: decoding offset record for %s: %w", id, err)
	}
	if wire.Size <= 0 || wire.Offset < wire.Size-1 {
		return nil, fmt.Errorf("gateway: implausible offset record for %s: size=%d offset=%d",
			id, wire.Size, wire.Offset)
	}
	return &TxOffset{Size: int64(wire.Size), Offset: int64(wire.Offset)}, nil
}

// chunkJSON is the wire form of a chunk envelope. Proof fields are
// present on the wire but not needed here.
type chunkJSON struct {
	Chunk arid.Blob `json:"chunk"`
}

// Chunk fetches the chunk covering the given absolute weave offset
// and returns its payload bytes. Chunk length is gateway-determined.
func (c *Client) Chunk(ctx context.Context, offset int64) ([]byte, error) {
	body, err := c.get(ctx, fmt.Sprintf("/chunk/%d", offset))
	if err != nil {
		return nil, err
	}

	var wire chunkJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gateway: decoding chunk at offset %d: %w", offset, err)
	}
	return wire.Chunk, nil
}

// get performs a GET with bounded retries on transient failures.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	requestURL := c.baseURL + path

	var lastErr error
	for attempt := 0; ; attempt++ {
		body, retry, err := c.getOnce(ctx, requestURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt >= c.retryAttempts {
			return nil, lastErr
		}

		backoff := time.Duration(attempt+1) * c.retryBackoff
		c.logger.Info("gateway request failed, retrying",
			"url", requestURL,
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-c.clock.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// getOnce performs a single GET. The second return value reports
// whether the failure is transient and worth retrying.
func (c *Client) getOnce(ctx context.Context, requestURL string) ([]byte, bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("gateway: creating request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		// Network-level failure: connection refused, reset, timeout.
		return nil, true, fmt.Errorf("gateway: GET %s: %w", requestURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusAccepted {
		return nil, false, fmt.Errorf("%w (%s)", ErrPending, requestURL)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: response.StatusCode,
			URL:        requestURL,
			Body:       netutil.ErrorBody(response.Body),
		}
		return nil, retryable(response.StatusCode), apiErr
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, true, fmt.Errorf("gateway: reading response from %s: %w", requestURL, err)
	}
	return body, false, nil
}

// ChunkStream returns a chunk supplier that walks the transaction's
// payload from its first byte, one gateway chunk per call. The
// returned function satisfies the decode pipeline's fetch contract:
// it yields payload byte runs in order and returns an empty result
// once the declared size has been delivered.
func (c *Client) ChunkStream(offset *TxOffset) func(ctx context.Context) ([]byte, error) {
	start := offset.Start()
	var delivered int64

	return func(ctx context.Context) ([]byte, error) {
		if delivered >= offset.Size {
			return nil, nil
		}

		chunk, err := c.Chunk(ctx, start+delivered)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			return nil, fmt.Errorf("gateway: empty chunk at offset %d", start+delivered)
		}
		if remaining := offset.Size - delivered; int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		delivered += int64(len(chunk))
		return chunk, nil
	}
}
