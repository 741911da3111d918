// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot defines published dataset snapshots and the read-only
// stores they are loaded from: a dumps directory, a versioned S3 bucket, or
// memory.
package snapshot
