// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package worker runs the dataset differ in an isolated unit and reports back
// through an ordered stream of leveled messages.
//
// Run is the worker body. A Runner hosts it either on a goroutine behind a
// panic boundary (Goroutine) or in a child process speaking JSON lines
// (Process and Serve). Every stream ends with a complete or error message,
// except when the worker is cancelled, in which case its last message is the
// "Diff worker terminated" warning.
package worker
