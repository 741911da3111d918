// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/purge"
)

var (
	verboseFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"V"},
		Usage:       "render the changed records of each type",
		HideDefault: true,
	}

	outputFlag *cli.StringFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
)

// NewSortFlag constructs the --sort flag ordering table output rows.
func NewSortFlag(ns, cfgFile string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "sort table rows by comma separated columns, - for descending",
		Value:   "dataset,type",
		Sources: withConfigFile(cli.NewValueSourceChain(), cfgFile, ns+".sort"),
	}
}

// NewStoreFlags constructs the flags selecting the snapshot store. Values not
// given on the command line come from the environment, then from the
// namespaced and store.* keys of the config file at cfgFile.
func NewStoreFlags(ns, cfgFile string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Usage: "snapshot store: dir or s3",
			Value: "dir",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_STORE")),
				cfgFile, ns+".store", "store.type"),
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "dumps directory holding <dataset>.json and <dataset>_old.json",
			Value:   "./dumps",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_DUMPS_DIR")),
				cfgFile, ns+".dir", "store.dir"),
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "versioned S3 bucket holding the snapshots",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_BUCKET")),
				cfgFile, ns+".bucket", "store.bucket"),
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "key prefix of the snapshots in the bucket",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_PREFIX")),
				cfgFile, ns+".prefix", "store.prefix"),
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region of the bucket",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_REGION")),
				cfgFile, "store.region"),
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_PROFILE")),
				cfgFile, "store.profile"),
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "S3 compatible endpoint, addressed path-style",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_S3_ENDPOINT")),
				cfgFile, "store.endpoint"),
		},
	}
}

// NewIsolationFlag constructs the flag selecting how diff workers are run.
func NewIsolationFlag(ns, cfgFile string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "isolation",
		Usage: "diff worker isolation: process or goroutine",
		Value: "process",
		Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_ISOLATION")),
			cfgFile, ns+".isolation", "isolation"),
		Validator: func(value string) error {
			return FlagValidators(value, IsolationValidator)
		},
	}
}

// NewPurgeFlags constructs the flags of the purge policy.
func NewPurgeFlags(ns, cfgFile string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "token",
			Usage: "cache-management API token. Purging is skipped without one",
			Sources: withConfigFile(cli.NewValueSourceChain(
				cli.EnvVar("PURGECTL_PURGE_TOKEN"),
				cli.EnvVar("STELLATE_PURGE_TOKEN"),
			), cfgFile, ns+".token"),
		},
		&cli.BoolFlag{
			Name:  "production",
			Usage: "purge the production API and honor the cooldown window",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_PRODUCTION")),
				cfgFile, ns+".production"),
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "cache-management API URL, used as is",
			Sources: withConfigFile(cli.NewValueSourceChain(cli.EnvVar("PURGECTL_ENDPOINT")),
				cfgFile, ns+".endpoint"),
		},
		&cli.DurationFlag{
			Name:  "min-interval",
			Usage: "cooldown after a snapshot is refreshed before its cache is purged",
			Value: purge.DefaultMinInterval,
			Sources: cli.NewValueSourceChain(cli.EnvVar("PURGECTL_MIN_INTERVAL")),
		},
		&cli.StringSliceFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "raw query to purge, repeatable",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "datasets purged concurrently",
			Value: purge.DefaultParallel,
		},
	}
}

// withConfigFile appends YAML sources for keys in path to chain. Earlier keys
// win.
func withConfigFile(chain cli.ValueSourceChain, path string, keys ...string) cli.ValueSourceChain {
	if path == "" {
		return chain
	}
	for _, key := range keys {
		chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return chain
}

// interval converts whole seconds from the config file, where min_interval is
// kept, to a duration.
func interval(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
