// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package purge

import (
	"slices"
	"time"
)

const (
	// DefaultEndpoint is the production cache-management API.
	DefaultEndpoint = "https://admin.stellate.co/tarkov-dev-api"
	// DefaultMinInterval is the cooldown after a snapshot's freshness
	// timestamp during which the cache is not purged.
	DefaultMinInterval = 60 * time.Second
	// DefaultParallel bounds PurgeAll's concurrency.
	DefaultParallel = 4
)

// Config holds the purge policy.
type Config struct {
	// Token authenticates against the cache-management API. Purging is
	// disabled when it is empty.
	Token string
	// Production selects the production API and enables the cooldown.
	Production bool
	// Endpoint overrides the API URL. It is used as is, with no environment
	// suffix.
	Endpoint string
	// IgnoreDatasets are never purged.
	IgnoreDatasets []string
	// MinInterval is the cooldown window.
	MinInterval time.Duration
	// Parallel bounds the number of concurrent purges in PurgeAll.
	Parallel int
}

// DefaultConfig returns the default policy without a token.
func DefaultConfig() Config {
	return Config{
		IgnoreDatasets: []string{"schema_data"},
		MinInterval:    DefaultMinInterval,
		Parallel:       DefaultParallel,
	}
}

// URL returns the API endpoint. Outside production the default endpoint gets
// a "-dev" suffix.
func (c Config) URL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Production {
		return DefaultEndpoint
	}
	return DefaultEndpoint + "-dev"
}

// Ignored reports whether dataset is never purged.
func (c Config) Ignored(dataset string) bool {
	return slices.Contains(c.IgnoreDatasets, dataset)
}

// Delay returns how long to wait before purging a dataset refreshed at
// updated. It is zero outside production.
func (c Config) Delay(now, updated time.Time) time.Duration {
	if !c.Production {
		return 0
	}
	return max(0, c.MinInterval-now.Sub(updated))
}
