// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// Serve is the child side of Process. It reads an optional new snapshot for
// dataset from in, runs the worker and writes its messages to out as JSON
// lines. The returned error only reports a broken out stream.
func Serve(ctx context.Context, dataset string, in io.Reader, out io.Writer, store snapshot.Store, opts differ.Options) error {
	enc := json.NewEncoder(out)
	var encErr error
	emit := func(m Message) {
		if encErr == nil {
			encErr = enc.Encode(m)
		}
	}

	job := Job{Dataset: dataset}

	data, err := io.ReadAll(in)
	if err != nil {
		emit(errorf("Error getting KV delta: failed to read snapshot: %v", err))
		return encErr
	}
	if len(bytes.TrimSpace(data)) > 0 {
		snap, err := snapshot.Parse(data)
		if err != nil {
			emit(errorf("Error getting KV delta: %v", err))
			return encErr
		}
		job.Snapshot = snap
	}

	Run(ctx, job, store, opts, emit)
	if encErr != nil {
		return fmt.Errorf("failed to write worker message: %w", encErr)
	}
	return nil
}
