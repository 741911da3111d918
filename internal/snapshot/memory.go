// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string]map[Version]Snapshot
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{snaps: map[string]map[Version]Snapshot{}}
}

// Put stores snap as version v of dataset.
func (m *Memory) Put(dataset string, v Version, snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snaps[dataset] == nil {
		m.snaps[dataset] = map[Version]Snapshot{}
	}
	m.snaps[dataset][v] = snap
}

// Read implements Store.
func (m *Memory) Read(ctx context.Context, dataset string, v Version) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[dataset][v]
	if !ok {
		return nil, fmt.Errorf("%s %s snapshot: %w", dataset, v, ErrNotFound)
	}
	return snap, nil
}
