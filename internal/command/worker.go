// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/meta"
	"github.com/tarkovdev/purgectl/internal/worker"
)

// workerCommandBuilder constructs the hidden "worker" command run by process
// isolated diff workers. It reads an optional new snapshot on stdin and writes
// JSON line messages on stdout.
func workerCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "worker",
		Usage:     "run one diff worker (internal)",
		UsageText: "purgectl worker [options] <dataset>",
		Hidden:    true,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewStoreFlags("worker", meta.CfgFile),
		Action: workerCommandAction,
	}
}

func workerCommandAction(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the message stream.
	log.InitLoggerTo(os.Stderr)

	if cmd.Args().Len() != 1 {
		return errors.New("worker takes exactly one dataset")
	}
	dataset := cmd.Args().First()

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	m := GetMeta(cmd)
	return worker.Serve(ctx, dataset, stdin(m), stdout(m), store, DiffOptions())
}
