// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/pflag"

	"github.com/arweave-tools/ardump/cmd/ardump/cli"
	"github.com/arweave-tools/ardump/lib/arid"
	"github.com/arweave-tools/ardump/lib/dump"
)

// DumpCommand returns the dump subcommand: the core operation.
func DumpCommand() *cli.Command {
	var (
		configPath string
		gatewayURL string
		outputPath string
		compress   bool
		queueDepth int
	)

	return &cli.Command{
		Name:    "dump",
		Summary: "Dump a bundle transaction's DataItems as a JSON array",
		Description: `Dump a bundle transaction's DataItems as a JSON array.

The transaction must carry the Bundle-Format=binary and
Bundle-Version=2.0.0 tags. Items are decoded and written one at a
time; a dump of a multi-gigabyte bundle holds only one network chunk
and one item in memory.

On failure the output array is left unterminated, so a partial dump
never parses as a complete one.`,
		Usage: "ardump dump <txid> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $ARDUMP_CONFIG)")
			flags.StringVar(&gatewayURL, "gateway", "", "gateway base URL (default: https://arweave.net)")
			flags.StringVarP(&outputPath, "output", "o", "", "output file (default: <txid>.json; - for stdout)")
			flags.BoolVar(&compress, "compress", false, "gzip the output file")
			flags.IntVar(&queueDepth, "queue-depth", 0, "decode-to-write queue depth (default: 16)")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Dump to stdout",
				Command:     "ardump dump -o - <txid>",
			},
			{
				Description: "Dump gzipped",
				Command:     "ardump dump --compress <txid>",
			},
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
			if queueDepth == 0 {
				queueDepth = cfg.Output.QueueDepth
			}
			if cfg.Output.Compress {
				compress = true
			}

			logger := cli.NewCommandLogger().With("command", "dump")
			client, err := newGateway(cfg, gatewayURL, logger)
			if err != nil {
				return err
			}

			sink, closeSink, path, err := openSink(id, outputPath, compress)
			if err != nil {
				return err
			}

			runner := &dump.Runner{
				Gateway:    client,
				Sink:       sink,
				Logger:     logger,
				QueueDepth: queueDepth,
			}
			summary, runErr := runner.Run(context.Background(), id)
			if closeErr := closeSink(); runErr == nil && closeErr != nil {
				runErr = fmt.Errorf("closing output: %w", closeErr)
			}
			if runErr != nil {
				return runErr
			}

			fmt.Fprintf(os.Stderr, "wrote %d items (%d data bytes) to %s\n",
				summary.Items, summary.DataBytes, path)
			return nil
		},
	}
}

// openSink resolves the output destination. It returns the writer, a
// close function flushing everything the writer stacked up, and the
// display name of the destination.
func openSink(id arid.ID, outputPath string, compress bool) (io.Writer, func() error, string, error) {
	if outputPath == "-" {
		return os.Stdout, func() error { return nil }, "stdout", nil
	}

	path := outputPath
	if path == "" {
		path = id.String() + ".json"
		if compress {
			path += ".gz"
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("creating output file: %w", err)
	}
	if !compress {
		return file, file.Close, path, nil
	}

	zw := gzip.NewWriter(file)
	closeAll := func() error {
		if err := zw.Close(); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}
	return zw, closeAll, path, nil
}
