// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"context"
	"errors"

	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// Runner starts one isolated worker per job. The returned channel delivers the
// worker's messages in order and is closed when the worker is gone. Cancelling
// ctx asks the worker to terminate.
type Runner interface {
	Start(ctx context.Context, job Job) (<-chan Message, error)
}

// defaultBuffer is the message channel capacity used by the runners.
const defaultBuffer = 16

// Goroutine runs workers on goroutines behind a panic boundary.
type Goroutine struct {
	Store   snapshot.Store
	Options differ.Options
}

// Start implements Runner.
func (g *Goroutine) Start(ctx context.Context, job Job) (<-chan Message, error) {
	if g.Store == nil {
		return nil, errors.New("goroutine runner has no snapshot store")
	}

	ch := make(chan Message, defaultBuffer)
	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				ch <- errorf("diff worker panicked: %v", r)
			}
		}()
		Run(ctx, job, g.Store, g.Options, func(m Message) { ch <- m })
	}()
	return ch, nil
}
