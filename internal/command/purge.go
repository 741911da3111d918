// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/config"
	"github.com/tarkovdev/purgectl/internal/delta"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/meta"
	"github.com/tarkovdev/purgectl/internal/purge"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// purgeCommandBuilder constructs the cli.Command for "purge", which purges the
// API cache for the records that changed in each dataset.
func purgeCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewStoreFlags("purge", meta.CfgFile)
	flags = append(flags, NewIsolationFlag("purge", meta.CfgFile))
	flags = append(flags, NewPurgeFlags("purge", meta.CfgFile)...)

	return &cli.Command{
		Name:      "purge",
		Usage:     "purge the API cache for changed records",
		UsageText: "purgectl purge [options] <dataset>...",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: purgeCommandAction,
	}
}

func purgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf(">> purgeCommandAction()")

	datasets := cmd.Args().Slice()
	if len(datasets) == 0 {
		return errors.New("at least one dataset is required")
	}

	runner, err := NewRunner(ctx, cmd)
	if err != nil {
		return err
	}

	c := &purge.Coordinator{
		Config: PurgeConfig(cmd),
		Delta:  delta.New(runner),
	}
	if c.Config.Token == "" {
		log.Warnf("no purge token, computing deltas only")
	}

	snaps := make(map[string]snapshot.Snapshot, len(datasets))
	for _, name := range datasets {
		snaps[name] = nil
	}
	loggers := func(dataset string) delta.Logger {
		return log.ForDataset(dataset)
	}

	return c.PurgeAll(ctx, snaps, loggers, cmd.StringSlice("query")...)
}

// PurgeConfig assembles the purge policy from flags and the config file.
func PurgeConfig(cmd *cli.Command) purge.Config {
	cfg := purge.DefaultConfig()
	cfg.Token = cmd.String("token")
	cfg.Production = cmd.Bool("production")
	cfg.Endpoint = cmd.String("endpoint")
	cfg.MinInterval = cmd.Duration("min-interval")
	if !cmd.IsSet("min-interval") {
		if secs, err := config.GetInt("min_interval"); err == nil && secs >= 0 {
			cfg.MinInterval = interval(secs)
		}
	}
	if p := cmd.Int("parallel"); p > 0 {
		cfg.Parallel = p
	}
	if ignore, err := config.GetStringSlice("ignore"); err == nil {
		cfg.IgnoreDatasets = ignore
	}
	return cfg
}
