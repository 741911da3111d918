// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// TerminatedMessage is the warning a worker sends when it is cancelled.
const TerminatedMessage = "Diff worker terminated"

// Job is one diff computation. When Snapshot is nil the new snapshot is read
// from the store.
type Job struct {
	Dataset  string
	Snapshot snapshot.Snapshot
}

// Run is the worker body. It diffs the stored old snapshot of job.Dataset
// against the new one and reports progress through emit, ending with a
// complete or error message. A cancelled ctx ends the stream with a
// TerminatedMessage warning instead.
func Run(ctx context.Context, job Job, store snapshot.Store, opts differ.Options, emit func(Message)) {
	terminated := func() bool {
		if ctx.Err() == nil {
			return false
		}
		emit(warnf(TerminatedMessage))
		return true
	}

	if terminated() {
		return
	}
	log.Debugf("worker: dataset=%s", job.Dataset)

	old, err := store.Read(ctx, job.Dataset, snapshot.Old)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		emit(logf("No previous %s snapshot, treating all types as new", job.Dataset))
		old = snapshot.Snapshot{}
	case err != nil:
		if terminated() {
			return
		}
		emit(errorf("Error getting KV delta: %v", err))
		return
	}

	cur := job.Snapshot
	if cur == nil {
		cur, err = store.Read(ctx, job.Dataset, snapshot.New)
		if err != nil {
			if terminated() {
				return
			}
			emit(errorf("Error getting KV delta: %v", err))
			return
		}
	}

	start := time.Now()
	result, err := safeDiff(ctx, old, cur, opts)
	if terminated() {
		return
	}
	if err != nil {
		emit(errorf("Error getting KV delta: %v", err))
		return
	}
	emit(logf("%s diff generated in %d ms", job.Dataset, time.Since(start).Milliseconds()))

	emit(Message{Level: LevelComplete, Diff: result, Updated: cur.Updated()})
}

// safeDiff runs differ.Diff, turning a panic into an error.
func safeDiff(ctx context.Context, old, cur snapshot.Snapshot, opts differ.Options) (result differ.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diff panicked: %v", r)
		}
	}()
	return differ.Diff(ctx, old, cur, opts)
}
