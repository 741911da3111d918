// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tarkovdev/purgectl/internal/config"
	"github.com/tarkovdev/purgectl/internal/delta"
	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/meta"
	"github.com/tarkovdev/purgectl/internal/output"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// diffCommandBuilder constructs the cli.Command for "diff", which reports what
// changed in each dataset without purging anything.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewStoreFlags("diff", meta.CfgFile)
	flags = append(flags, NewIsolationFlag("diff", meta.CfgFile), NewSortFlag("diff", meta.CfgFile), outputFlag, verboseFlag)

	return &cli.Command{
		Name:      "diff",
		Usage:     "show which records changed since the previous snapshot",
		UsageText: "purgectl diff [options] <dataset>...",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: diffCommandAction,
	}
}

func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	log.Debugf(">> diffCommandAction()")

	datasets := cmd.Args().Slice()
	if len(datasets) == 0 {
		return errors.New("at least one dataset is required")
	}

	runner, err := NewRunner(ctx, cmd)
	if err != nil {
		return err
	}
	client := delta.New(runner)

	deltas := make(map[string]*delta.Delta, len(datasets))
	for _, name := range datasets {
		d, err := client.Compute(ctx, name, nil, log.ForDataset(name))
		if err != nil {
			return err
		}
		deltas[name] = d
	}

	out := stdout(GetMeta(cmd))
	switch cmd.String("output") {
	case "json":
		return writeDeltasJSON(out, datasets, deltas)
	case "table":
		writeDeltasTable(out, datasets, deltas, cmd.String("sort"), colorize(out))
		return nil
	}

	var store snapshot.Store
	if cmd.Bool("verbose") {
		if store, err = NewStore(ctx, cmd); err != nil {
			return err
		}
	}

	for _, name := range datasets {
		writeDelta(out, name, deltas[name])
		if store != nil {
			if err := renderDelta(ctx, out, store, name, deltas[name].Types, colorize(out)); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDelta prints one dataset's delta as text.
func writeDelta(w io.Writer, dataset string, d *delta.Delta) {
	updated := "unknown"
	if !d.Updated.IsZero() {
		updated = d.Updated.UTC().Format(time.RFC3339)
	}

	if len(d.Types) == 0 {
		fmt.Fprintf(w, "%s (updated %s): no changes\n", dataset, updated)
		return
	}

	fmt.Fprintf(w, "%s (updated %s): %d types, %d ids\n", dataset, updated, len(d.Types), d.Types.Count())
	for _, t := range d.Types.Types() {
		if d.Types.Whole(t) {
			fmt.Fprintf(w, "  %s: (all)\n", t)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", t, strings.Join(d.Types[t], ", "))
	}
}

var deltaColumns = []output.Column{
	{Key: "dataset", Title: "DATASET"},
	{Key: "updated", Title: "UPDATED"},
	{Key: "type", Title: "TYPE"},
	{Key: "count", Title: "COUNT"},
	{Key: "ids", Title: "IDS"},
}

// writeDeltasTable prints one row per changed type. Whole type changes show
// "(all)" in the ids column.
func writeDeltasTable(w io.Writer, datasets []string, deltas map[string]*delta.Delta, sortSpec string, color bool) {
	var rows []map[string]any
	for _, name := range datasets {
		d := deltas[name]
		updated := ""
		if !d.Updated.IsZero() {
			updated = d.Updated.UTC().Format(time.RFC3339)
		}
		for _, t := range d.Types.Types() {
			var ids any = d.Types[t]
			if d.Types.Whole(t) {
				ids = "(all)"
			}
			rows = append(rows, map[string]any{
				"dataset": name,
				"updated": updated,
				"type":    t,
				"count":   len(d.Types[t]),
				"ids":     ids,
			})
		}
	}

	output.SortRows(rows, sortSpec)
	pad, _ := config.GetInt("padding", 2) //nolint:mnd
	output.TableWriter(w, rows, deltaColumns, output.TableOptions{
		Titles:  true,
		Color:   color,
		Padding: pad,
		Empty:   "-",
	})
}

type jsonDelta struct {
	Types   differ.Result `json:"types"`
	Updated *time.Time    `json:"updated,omitempty"`
}

func writeDeltasJSON(w io.Writer, datasets []string, deltas map[string]*delta.Delta) error {
	doc := make(map[string]jsonDelta, len(datasets))
	for _, name := range datasets {
		d := deltas[name]
		jd := jsonDelta{Types: d.Types}
		if !d.Updated.IsZero() {
			updated := d.Updated.UTC()
			jd.Updated = &updated
		}
		doc[name] = jd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// renderDelta prints the ascii diff of every changed type of dataset.
func renderDelta(ctx context.Context, w io.Writer, store snapshot.Store, dataset string, types differ.Result, color bool) error {
	old, err := store.Read(ctx, dataset, snapshot.Old)
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return err
	}
	cur, err := store.Read(ctx, dataset, snapshot.New)
	if err != nil {
		return err
	}

	aliases := differ.DefaultOptions().Aliases
	for _, t := range types.Types() {
		raw := sourceType(t, aliases)
		out, err := differ.Render(old[raw], cur[raw], color)
		if err != nil {
			return err
		}
		if out == "" {
			continue
		}
		fmt.Fprintf(w, "--- %s\n%s\n", t, strings.TrimRight(out, "\n"))
	}
	return nil
}

// sourceType maps a purge type name back to the snapshot type it came from.
func sourceType(name string, aliases map[string]string) string {
	for raw, alias := range aliases {
		if alias == name {
			return raw
		}
	}
	return name
}

func stdin(m meta.Meta) io.Reader {
	if m.Stdin != nil {
		return m.Stdin
	}
	return os.Stdin
}

func stdout(m meta.Meta) io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// colorize reports whether w is a terminal.
func colorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
