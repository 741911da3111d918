// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package purge invalidates the API cache for the records a dataset update
// changed.
//
// A Coordinator computes the dataset's delta, waits out the cooldown window
// after the snapshot's freshness timestamp (production only) and sends a
// single soft purge mutation:
//
//	mutation {
//	  Item: _purgeType(type: "Item", keyFields: [{name: "id", value: "a"}], soft: true)
//	  Task: _purgeType(type: "Task", soft: true)
//	  _purgeQuery(queries: [items], soft: true)
//	}
//
// Failed purges are logged and never retried.
package purge
