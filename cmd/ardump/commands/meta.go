// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/arweave-tools/ardump/cmd/ardump/cli"
	"github.com/arweave-tools/ardump/lib/arid"
)

// MetaCommand returns the meta subcommand: print a transaction's
// decoded metadata without fetching any data.
func MetaCommand() *cli.Command {
	var (
		configPath string
		gatewayURL string
	)

	return &cli.Command{
		Name:    "meta",
		Summary: "Print a transaction's decoded tags and size",
		Description: `Print a transaction's metadata: format, data size, and decoded
tags. Useful for checking whether a transaction is a bundle before
dumping it.`,
		Usage: "ardump meta <txid> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("meta", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $ARDUMP_CONFIG)")
			flags.StringVar(&gatewayURL, "gateway", "", "gateway base URL (default: https://arweave.net)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one transaction id, got %d arguments", len(args))
			}
			id, err := arid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "meta")
			client, err := newGateway(cfg, gatewayURL, logger)
			if err != nil {
				return err
			}

			metadata, err := client.Transaction(context.Background(), id)
			if err != nil {
				return err
			}

			out := struct {
				ID       string       `json:"id"`
				Format   int          `json:"format"`
				DataSize int64        `json:"data_size"`
				Bundle   bool         `json:"bundle"`
				Tags     []gatewayTag `json:"tags"`
			}{
				ID:       id.String(),
				Format:   metadata.Format,
				DataSize: metadata.DataSize,
				Bundle:   metadata.IsBundle(),
			}
			for _, tag := range metadata.Tags {
				out.Tags = append(out.Tags, gatewayTag{Name: tag.Name, Value: tag.Value})
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
}

type gatewayTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
