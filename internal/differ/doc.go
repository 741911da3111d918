// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes which records of a dataset snapshot changed since
// the previous snapshot.
//
// The result is grouped by purge type. Records carrying an "id" are reported
// by id; positional changes to id-less sequences and changes to scalar or
// mismatched values are reported as a whole type change, an empty marker
// list. Options rename types (Aliases), force full purges (WholeTypes) and
// pull in dependent types (Linked).
package differ
