// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	awsx "github.com/tarkovdev/purgectl/internal/aws"
	"github.com/tarkovdev/purgectl/internal/config"
	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/meta"
	"github.com/tarkovdev/purgectl/internal/snapshot"
	"github.com/tarkovdev/purgectl/internal/worker"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewStore builds the snapshot store selected by the store flags.
func NewStore(ctx context.Context, cmd *cli.Command) (snapshot.Store, error) {
	switch cmd.String("store") {
	case "s3":
		m := GetMeta(cmd)
		if hours, _ := config.GetInt("cache.clean", 0); hours > 0 {
			if err := m.Cache.Purge(hours); err != nil {
				log.WithError(err).Warn("failed to purge cache")
			}
		}

		var opts []awsx.Option
		if v := cmd.String("profile"); v != "" {
			opts = append(opts, awsx.WithProfile(v))
		}
		if v := cmd.String("region"); v != "" {
			opts = append(opts, awsx.WithRegion(v))
		}
		if v := cmd.String("s3-endpoint"); v != "" {
			opts = append(opts, awsx.WithEndpoint(v), awsx.WithPathStyle(true))
		}
		return snapshot.NewS3(ctx, cmd.String("bucket"), cmd.String("prefix"), m.Cache, opts...)
	case "dir":
		return snapshot.NewDir(cmd.String("dir"))
	default:
		return nil, fmt.Errorf("unknown snapshot store %q", cmd.String("store"))
	}
}

// DiffOptions returns the differ options, extended by the diff.ignore config
// list.
func DiffOptions() differ.Options {
	opts := differ.DefaultOptions()
	if extra, err := config.GetStringSlice("diff.ignore", nil); err == nil {
		opts.IgnoreTypes = append(opts.IgnoreTypes, extra...)
	}
	return opts
}

// NewRunner builds the worker runner selected by --isolation. Process workers
// re-execute this binary with the same store flags.
func NewRunner(ctx context.Context, cmd *cli.Command) (worker.Runner, error) {
	if cmd.String("isolation") == "goroutine" {
		store, err := NewStore(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return &worker.Goroutine{Store: store, Options: DiffOptions()}, nil
	}
	return &worker.Process{Args: WorkerArgs(cmd)}, nil
}

// WorkerArgs returns the arguments that start a worker child reading the same
// store as cmd. The dataset name is appended by the runner.
func WorkerArgs(cmd *cli.Command) []string {
	args := []string{"worker"}
	for _, name := range []string{"store", "dir", "bucket", "prefix", "region", "profile", "s3-endpoint"} {
		if v := cmd.String(name); v != "" {
			args = append(args, "--"+name, v)
		}
	}
	return args
}
