// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package purge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tarkovdev/purgectl/internal/differ"
)

// queryField is the response field of a query purge.
const queryField = "_purgeQuery"

// Mutation builds the soft purge mutation for the changed types and raw
// queries. Types are purged per id unless their marker list is empty.
func Mutation(types differ.Result, queries []string) string {
	var parts []string

	for _, t := range types.Types() {
		var b strings.Builder
		fmt.Fprintf(&b, "%s: _purgeType(type: %s,", t, quote(t))
		if ids := types[t]; len(ids) > 0 {
			keys := make([]string, len(ids))
			for i, id := range ids {
				keys[i] = fmt.Sprintf("{name: \"id\", value: %s}", quote(id))
			}
			fmt.Fprintf(&b, " keyFields: [%s],", strings.Join(keys, ", "))
		}
		b.WriteString(" soft: true)")
		parts = append(parts, b.String())
	}

	if len(queries) > 0 {
		parts = append(parts, fmt.Sprintf("%s(queries: [%s], soft: true)", queryField, strings.Join(queries, ", ")))
	}

	return fmt.Sprintf("mutation { %s }", strings.Join(parts, " "))
}

// quote renders s as a GraphQL string literal, which shares JSON's escapes.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// Summary describes a successful response's data: "T (n)" for per-id purges,
// "T" for whole types and "queries" for the query purge.
func Summary(data gjson.Result, types differ.Result) string {
	var out []string
	data.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == queryField {
			if value.Bool() {
				out = append(out, "queries")
			}
			return true
		}
		if n := len(types[name]); n > 0 {
			out = append(out, fmt.Sprintf("%s (%d)", name, n))
		} else {
			out = append(out, name)
		}
		return true
	})
	return strings.Join(out, ", ")
}

// responseErrors returns the messages of a response's errors array.
func responseErrors(doc gjson.Result) []string {
	var msgs []string
	for _, e := range doc.Get("errors").Array() {
		if m := e.Get("message"); m.Exists() {
			msgs = append(msgs, m.String())
		} else {
			msgs = append(msgs, e.String())
		}
	}
	return msgs
}
