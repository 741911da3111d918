// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrNotFound is returned by a Store when the requested snapshot version does
// not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot maps a record type name to its records: either an ordered []any of
// records or a map[string]any keyed by arbitrary strings. Values are the
// shapes produced by encoding/json.
type Snapshot map[string]any

// Version selects which snapshot of a dataset to read.
type Version int

const (
	// New is the snapshot about to be published.
	New Version = iota
	// Old is the previously published snapshot.
	Old
)

func (v Version) String() string {
	switch v {
	case New:
		return "new"
	case Old:
		return "old"
	default:
		return fmt.Sprintf("version(%d)", int(v))
	}
}

// Store reads dataset snapshots. Implementations are read-only and safe for
// concurrent use.
type Store interface {
	Read(ctx context.Context, dataset string, v Version) (Snapshot, error)
}

// Parse decodes a JSON document into a Snapshot. The document must be a JSON
// object.
func Parse(data []byte) (Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("snapshot is not valid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("snapshot is not a JSON object")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// Updated returns the freshness timestamp stored under the top-level
// "updated" key. RFC 3339 strings and epoch milliseconds are accepted. The
// zero time is returned when the key is absent or unparseable.
func (s Snapshot) Updated() time.Time {
	switch v := s["updated"].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case float64:
		return time.UnixMilli(int64(v))
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return time.UnixMilli(ms)
		}
	}
	return time.Time{}
}

// validName rejects dataset names that would escape a store's namespace.
func validName(dataset string) error {
	if dataset == "" {
		return errors.New("dataset name is empty")
	}
	if strings.ContainsAny(dataset, `/\`) || strings.Contains(dataset, "..") {
		return fmt.Errorf("invalid dataset name %q", dataset)
	}
	return nil
}
