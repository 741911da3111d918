// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cacheutil implements the on-disk cache used for immutable snapshot
// versions. A Cache is created once by the caller and passed to the stores
// that use it.
package cacheutil
