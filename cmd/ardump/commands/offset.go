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

// OffsetCommand returns the offset subcommand: print a transaction's
// chunk offset record.
func OffsetCommand() *cli.Command {
	var (
		configPath string
		gatewayURL string
	)

	return &cli.Command{
		Name:    "offset",
		Summary: "Print a transaction's size and absolute chunk offset",
		Description: `Print the transaction's offset record: its size on the wire and
the absolute offset of its last byte in the weave. The first chunk of
the transaction lives at offset - size + 1.`,
		Usage: "ardump offset <txid> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("offset", pflag.ContinueOnError)
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
			logger := cli.NewCommandLogger().With("command", "offset")
			client, err := newGateway(cfg, gatewayURL, logger)
			if err != nil {
				return err
			}

			offset, err := client.TransactionOffset(context.Background(), id)
			if err != nil {
				return err
			}

			out := struct {
				ID     string `json:"id"`
				Size   int64  `json:"size"`
				Offset int64  `json:"offset"`
				Start  int64  `json:"start"`
			}{
				ID:     id.String(),
				Size:   offset.Size,
				Offset: offset.Offset,
				Start:  offset.Start(),
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
}
