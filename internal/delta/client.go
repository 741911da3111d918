// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package delta

import (
	"context"
	"errors"
	"time"

	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/snapshot"
	"github.com/tarkovdev/purgectl/internal/worker"
)

// Logger receives the progress of a diff computation.
type Logger interface {
	Log(msg string)
	Warn(msg string)
	Error(msg string)
}

// Delta is a computed diff and the freshness timestamp of the snapshot it was
// computed for.
type Delta struct {
	Types   differ.Result
	Updated time.Time
}

// Client computes deltas, starting one worker per call.
type Client struct {
	Runner worker.Runner
}

// New returns a Client using runner.
func New(runner worker.Runner) *Client {
	return &Client{Runner: runner}
}

// Compute diffs snap against the previously published snapshot of dataset.
// Worker log and warn messages are relayed to logger in order. The returned
// error is a *DiffComputationError.
func (c *Client) Compute(ctx context.Context, dataset string, snap snapshot.Snapshot, logger Logger) (*Delta, error) {
	if logger == nil {
		logger = discard{}
	}

	ch, err := c.Runner.Start(ctx, worker.Job{Dataset: dataset, Snapshot: snap})
	if err != nil {
		return nil, &DiffComputationError{Dataset: dataset, Message: err.Error(), Err: err}
	}

	var result *Delta
	var failure *DiffComputationError
	for m := range ch {
		switch m.Level {
		case worker.LevelLog:
			relay(logger.Log, m.Message)
		case worker.LevelWarn:
			relay(logger.Warn, m.Message)
		case worker.LevelError:
			relay(logger.Error, m.Message)
			if result == nil && failure == nil {
				failure = &DiffComputationError{Dataset: dataset, Message: m.Message}
			}
		case worker.LevelComplete:
			if result == nil && failure == nil {
				result = &Delta{Types: m.Diff, Updated: m.Updated}
			}
		}
	}

	switch {
	case failure != nil:
		return nil, failure
	case result != nil:
		if result.Types == nil {
			result.Types = differ.Result{}
		}
		log.Debugf("delta: dataset=%s types=%d ids=%d", dataset, len(result.Types), result.Types.Count())
		return result, nil
	}

	err = ErrWorkerCrashed
	if ctx.Err() != nil {
		err = errors.Join(ErrWorkerCrashed, ctx.Err())
	}
	return nil, &DiffComputationError{Dataset: dataset, Message: err.Error(), Err: err}
}

// relay delivers msg to f. A panicking logger does not abort the computation.
func relay(f func(string), msg string) {
	defer func() {
		if r := recover(); r != nil {
			log.Debugf("delta: logger panicked: %v", r)
		}
	}()
	f(msg)
}

type discard struct{}

func (discard) Log(string)   {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
