// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the ardump CLI command tree.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/arweave-tools/ardump/cmd/ardump/cli"
	"github.com/arweave-tools/ardump/lib/config"
	"github.com/arweave-tools/ardump/lib/gateway"
	"github.com/arweave-tools/ardump/lib/version"
)

// Root builds and returns the complete ardump CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "ardump",
		Description: `ardump: dump Arweave ANS-104 bundles.

Fetch a bundle transaction from a gateway, stream-decode its DataItems,
and write them as a JSON array without buffering the whole bundle.`,
		Subcommands: []*cli.Command{
			DumpCommand(),
			MetaCommand(),
			OffsetCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("ardump %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Dump a bundle to <txid>.json",
				Command:     "ardump dump kPyYkcGT7Qrbmw2tReyDbPB5UA23mUzRca1sWRE2DWo",
			},
			{
				Description: "Dump gzipped output from a local gateway",
				Command:     "ardump dump --gateway http://localhost:1984 --compress <txid>",
			},
			{
				Description: "Inspect a transaction's tags",
				Command:     "ardump meta <txid>",
			},
		},
	}
}

// loadConfig loads the effective configuration: the explicit --config
// path when given, otherwise ARDUMP_CONFIG or the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newGateway builds a gateway client from config plus the --gateway
// flag override.
func newGateway(cfg *config.Config, urlOverride string, logger *slog.Logger) (*gateway.Client, error) {
	baseURL := cfg.Gateway.URL
	if urlOverride != "" {
		baseURL = urlOverride
	}
	return gateway.NewClient(gateway.Config{
		BaseURL:       baseURL,
		Logger:        logger,
		RetryAttempts: cfg.Gateway.RetryAttempts,
		RetryBackoff:  cfg.Gateway.Backoff(),
	})
}
