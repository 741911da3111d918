// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for purgectl's
// configuration. The configuration is a YAML document named by
// PURGECTL_CFG_FILE or located in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/purgectl.yaml or $HOME/.config/purgectl.yaml
//   - macOS: $HOME/Library/Application Support/purgectl.yaml
//   - Windows: %AppData%/purgectl.yaml
//
// A typical file:
//
//	purge:
//	  token: "..."
//	  ignore: [schema_data]
//	  min_interval: 60
//	store:
//	  bucket: tarkov-data
//	  prefix: kv
//	cache:
//	  clean: 48
package config
