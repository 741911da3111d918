// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for purgectl. It wires flags,
// validators, actions, and shell completion for subcommands, including the
// hidden worker command that process isolated diff workers run.
package command
