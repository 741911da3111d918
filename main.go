// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tarkovdev/purgectl/internal/command"
	"github.com/tarkovdev/purgectl/internal/config"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/version"
)

// boolFlags never take a separate value argument.
var boolFlags = map[string]bool{
	"help": true, "h": true,
	"production": true,
	"verbose":    true, "V": true,
	"version": true, "v": true,
}

// repeatableFlags may legitimately appear more than once.
var repeatableFlags = map[string]bool{
	"query": true, "q": true,
}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(ctx context.Context, args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	args := os.Args

	// A diff worker's stdout is its message stream.
	if len(args) > 1 && args[1] == "worker" {
		log.InitLoggerTo(os.Stderr)
	} else {
		log.InitLogger()
	}
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processSetOnly(args)
		args = deduplicateFlags(args)
		log.Debugf("args after processing: args=%v", args)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return initAndRunApp(ctx, args)
}

// processSetOnly expands an @set argument into the flags listed under
// <command>.<set> in the config file, at the position of the @set argument.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}
	for i, a := range args[2:] {
		if !strings.HasPrefix(a, "@") {
			continue
		}
		idx := i + 2
		args = append(args[:idx:idx], args[idx+1:]...)
		entries, _ := config.GetStringSlice(args[1] + "." + a[1:])
		return injectConfigSet(args, entries, idx)
	}
	return args
}

// injectConfigSet splits each entry into fields and inserts them at insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, splitFields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

func splitFields(entry string) []string {
	return strings.Fields(entry)
}

// deduplicateFlags keeps only the last occurrence of each flag after the
// command, together with its value. Positional arguments keep their place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}
	var groups []group
	last := map[string]int{}

	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			groups = append(groups, group{tokens: args[i:]})
			break
		}
		if !strings.HasPrefix(a, "-") || a == "-" {
			groups = append(groups, group{tokens: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		tokens := []string{a}
		if key, _, found := strings.Cut(name, "="); found {
			name = key
		} else if !boolFlags[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			tokens = append(tokens, args[i+1])
			i++
		}

		if !repeatableFlags[name] {
			last[name] = len(groups)
		}
		groups = append(groups, group{name: name, tokens: tokens})
	}

	out := append([]string{}, args[:2]...)
	for idx, g := range groups {
		if at, ok := last[g.name]; ok && g.name != "" && at != idx {
			continue
		}
		out = append(out, g.tokens...)
	}
	return out
}
