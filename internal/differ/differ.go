// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"slices"
	"sort"

	"github.com/spf13/cast"
	"github.com/yudai/gojsondiff"

	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// Result maps a purge type name to its change markers. Each marker is a record
// id or mapping key. An empty, non-nil list means the whole type changed.
// Types without changes are absent.
type Result map[string][]string

// Types returns the changed type names, sorted.
func (r Result) Types() []string {
	types := make([]string, 0, len(r))
	for t := range r {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Whole reports whether typ is marked as changed in its entirety.
func (r Result) Whole(typ string) bool {
	ids, ok := r[typ]
	return ok && len(ids) == 0
}

// Count returns the number of id markers across all types.
func (r Result) Count() int {
	n := 0
	for _, ids := range r {
		n += len(ids)
	}
	return n
}

// Options tune how snapshot types map onto purge types.
type Options struct {
	// IgnoreTypes are never compared.
	IgnoreTypes []string
	// Aliases renames a snapshot type to the type name the cache knows it by.
	Aliases map[string]string
	// WholeTypes are always purged in full, never per id.
	WholeTypes []string
	// Linked types are purged in full whenever the keyed type changes.
	Linked map[string][]string
}

// DefaultOptions returns the options used when publishing the API datasets.
func DefaultOptions() Options {
	return Options{
		IgnoreTypes: []string{"updated", "data", "ItemType", "LanguageCode", "schema", "expiration", "locale"},
		Aliases:     map[string]string{"HandbookCategory": "ItemCategory"},
		WholeTypes:  []string{"Barter", "MobInfo", "TraderCashOffer"},
		Linked:      map[string][]string{"TraderCashOffer": {"ItemPrice"}},
	}
}

// Diff compares two snapshots type by type and returns the records that were
// changed, added or removed. Types present in only one of the snapshots are
// marked as changed in full.
func Diff(ctx context.Context, before, after snapshot.Snapshot, opts Options) (Result, error) {
	log.Debugf(">> differ.Diff(): old=%d types new=%d types", len(before), len(after))

	acc := newAccumulator()

	for _, typ := range sortedKeys(before) {
		if slices.Contains(opts.IgnoreTypes, typ) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		newD, ok := after[typ]
		if !ok || newD == nil {
			acc.whole(typ)
			continue
		}
		compareType(acc, typ, before[typ], newD)
	}

	for _, typ := range sortedKeys(after) {
		if slices.Contains(opts.IgnoreTypes, typ) {
			continue
		}
		if _, ok := before[typ]; ok {
			continue
		}
		if after[typ] != nil {
			acc.whole(typ)
		}
	}

	return acc.result(opts), nil
}

// compareType records the markers for one type.
func compareType(acc *accumulator, typ string, oldD, newD any) {
	oldArr, oldIsArr := oldD.([]any)
	newArr, newIsArr := newD.([]any)
	if oldIsArr && newIsArr {
		compareSequences(acc, typ, oldArr, newArr)
		return
	}

	oldMap, oldIsMap := oldD.(map[string]any)
	newMap, newIsMap := newD.(map[string]any)
	if oldIsMap && newIsMap {
		compareMappings(acc, typ, oldMap, newMap)
		return
	}

	if !Equal(oldD, newD) {
		acc.whole(typ)
	}
}

// compareSequences matches entries by id when they carry one and by index
// otherwise. Index matched entries can only be reported as a whole type change.
func compareSequences(acc *accumulator, typ string, oldArr, newArr []any) {
	oldByID := indexByID(oldArr)
	newByID := indexByID(newArr)

	for i, o := range oldArr {
		if id, ok := idOf(o); ok {
			n, found := newByID[id]
			if !found || !Equal(o, n) {
				acc.add(typ, id)
			}
			continue
		}
		if i >= len(newArr) || !Equal(o, newArr[i]) {
			acc.whole(typ)
		}
	}

	for i, n := range newArr {
		if id, ok := idOf(n); ok {
			if _, found := oldByID[id]; !found {
				acc.add(typ, id)
			}
			continue
		}
		if i >= len(oldArr) {
			acc.whole(typ)
		}
	}
}

// compareMappings matches entries by key. The marker is the entry's id when
// it has one and the key otherwise.
func compareMappings(acc *accumulator, typ string, oldMap, newMap map[string]any) {
	for _, key := range sortedKeys(oldMap) {
		o := oldMap[key]
		marker := key
		if id, ok := idOf(o); ok {
			marker = id
		}
		n, found := newMap[key]
		if !found || !Equal(o, n) {
			acc.add(typ, marker)
		}
	}

	for _, key := range sortedKeys(newMap) {
		if _, found := oldMap[key]; found {
			continue
		}
		marker := key
		if id, ok := idOf(newMap[key]); ok {
			marker = id
		}
		acc.add(typ, marker)
	}
}

// Equal reports whether two decoded JSON values are structurally equal. Key
// order inside mappings is ignored; element order inside sequences is not.
func Equal(a, b any) bool {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if !aok || !bok {
		am = map[string]any{"value": a}
		bm = map[string]any{"value": b}
	}
	return !gojsondiff.New().CompareObjects(am, bm).Modified()
}

// idOf returns the stringified id field of a record.
func idOf(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	raw, ok := m["id"]
	if !ok || raw == nil {
		return "", false
	}
	id, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return id, true
}

// indexByID maps ids to their first record.
func indexByID(arr []any) map[string]any {
	idx := make(map[string]any, len(arr))
	for _, v := range arr {
		if id, ok := idOf(v); ok {
			if _, dup := idx[id]; !dup {
				idx[id] = v
			}
		}
	}
	return idx
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// accumulator collects markers per snapshot type in first-seen order.
type accumulator struct {
	order []string
	types map[string]*marks
}

type marks struct {
	whole bool
	ids   []string
	seen  map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{types: map[string]*marks{}}
}

func (a *accumulator) get(typ string) *marks {
	m, ok := a.types[typ]
	if !ok {
		m = &marks{seen: map[string]struct{}{}}
		a.types[typ] = m
		a.order = append(a.order, typ)
	}
	return m
}

func (a *accumulator) add(typ, id string) {
	m := a.get(typ)
	if _, dup := m.seen[id]; dup {
		return
	}
	m.seen[id] = struct{}{}
	m.ids = append(m.ids, id)
}

func (a *accumulator) whole(typ string) {
	a.get(typ).whole = true
}

// result applies aliases, whole types and links and returns the final Result.
func (a *accumulator) result(opts Options) Result {
	out := Result{}
	whole := map[string]bool{}

	for _, typ := range a.order {
		m := a.types[typ]
		name := typ
		if alias, ok := opts.Aliases[typ]; ok {
			name = alias
		}

		if m.whole || slices.Contains(opts.WholeTypes, name) {
			whole[name] = true
		}
		for _, linked := range opts.Linked[typ] {
			whole[linked] = true
		}

		for _, id := range m.ids {
			if !slices.Contains(out[name], id) {
				out[name] = append(out[name], id)
			}
		}
		if out[name] == nil {
			out[name] = []string{}
		}
	}

	for name := range whole {
		out[name] = []string{}
	}
	return out
}
