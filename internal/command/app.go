// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/cacheutil"
	"github.com/tarkovdev/purgectl/internal/config"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	return newApp(ctx, args, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the purgectl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, err
	}
	log.Debugf("config: source=%s namespace=%s", cfg.Source, ns)

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		CfgFile: cfg.Source,
		Context: ctx,
		Cache:   cacheutil.New(),
		Stdin:   stdin,
		Stdout:  stdout,
	}

	app := &cli.Command{
		Name:  "purgectl",
		Usage: "Dataset cache purge control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "purgectl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		diffCommandBuilder(meta),
		purgeCommandBuilder(meta),
		workerCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
