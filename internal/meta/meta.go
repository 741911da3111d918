// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"io"

	"github.com/tarkovdev/purgectl/internal/cacheutil"
	"github.com/tarkovdev/purgectl/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// the loaded configuration and the path it came from, the snapshot cache and
// the streams commands read from and write results to.
type Meta struct {
	Args    []string
	Config  config.Type
	CfgFile string
	Context context.Context
	Cache   *cacheutil.Cache
	Stdin   io.Reader
	Stdout  io.Writer
}
