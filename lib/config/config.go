// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for ardump.
//
// Configuration is loaded from a single YAML file specified by:
//   - ARDUMP_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. Flags override file
// values; built-in defaults apply when neither is set.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at the config file.
const EnvVar = "ARDUMP_CONFIG"

// Config is the master configuration for ardump.
type Config struct {
	// Gateway configures the Arweave gateway client.
	Gateway GatewayConfig `yaml:"gateway"`

	// Output configures how dumped bundles are written.
	Output OutputConfig `yaml:"output"`
}

// GatewayConfig configures the gateway HTTP client.
type GatewayConfig struct {
	// URL is the gateway base URL.
	// Default: https://arweave.net
	URL string `yaml:"url"`

	// RetryAttempts is how many times a transient gateway failure is
	// retried before it is surfaced. Default: 1
	RetryAttempts int `yaml:"retry_attempts"`

	// RetryBackoff is the base delay between retries; attempt n waits
	// n times this value. A Go duration string. Default: 500ms
	RetryBackoff string `yaml:"retry_backoff"`
}

// Backoff parses RetryBackoff. Call Validate first; a value that fails
// to parse comes back as zero here.
func (g *GatewayConfig) Backoff() time.Duration {
	d, err := time.ParseDuration(g.RetryBackoff)
	if err != nil {
		return 0
	}
	return d
}

// OutputConfig configures dump output.
type OutputConfig struct {
	// QueueDepth bounds the decode-to-write handoff queue.
	// Default: 16
	QueueDepth int `yaml:"queue_depth"`

	// Compress gzips the output file by default.
	Compress bool `yaml:"compress"`
}

// Default returns the built-in configuration. A config file is
// optional for ardump; these values are what you get without one.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:           "https://arweave.net",
			RetryAttempts: 1,
			RetryBackoff:  "500ms",
		},
		Output: OutputConfig{
			QueueDepth: 16,
		},
	}
}

// Load loads configuration from the path given by ARDUMP_CONFIG, or
// returns the defaults when the variable is not set. An explicit
// --config path should go through LoadFile instead.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults. The file is the single source of truth; no other
// locations are consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	parsed, err := url.Parse(c.Gateway.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("gateway.url %q must be an http(s) URL", c.Gateway.URL))
	}
	if c.Gateway.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("gateway.retry_attempts must be >= 0"))
	}
	if backoff, err := time.ParseDuration(c.Gateway.RetryBackoff); err != nil {
		errs = append(errs, fmt.Errorf("gateway.retry_backoff %q is not a duration", c.Gateway.RetryBackoff))
	} else if backoff < 0 {
		errs = append(errs, fmt.Errorf("gateway.retry_backoff must be >= 0"))
	}
	if c.Output.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("output.queue_depth must be >= 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
