// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package delta

import (
	"errors"
	"fmt"
)

// ErrWorkerCrashed reports a worker stream that ended without a complete or
// error message.
var ErrWorkerCrashed = errors.New("diff worker exited without a result")

// DiffComputationError is returned by Client.Compute when no diff could be
// produced for Dataset.
type DiffComputationError struct {
	Dataset string
	Message string
	Err     error
}

func (e *DiffComputationError) Error() string {
	return fmt.Sprintf("failed to compute %s diff: %s", e.Dataset, e.Message)
}

func (e *DiffComputationError) Unwrap() error {
	return e.Err
}
