// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package delta asks an isolated diff worker for the changes in a dataset
// snapshot and turns the worker's message stream into a Delta or a
// DiffComputationError.
package delta
