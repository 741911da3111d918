// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarkovdev/purgectl/internal/snapshot"
)

func snap(t *testing.T, doc string) snapshot.Snapshot {
	t.Helper()
	var s snapshot.Snapshot
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	return s
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want Result
	}{
		{
			name: "identical",
			old:  `{"items":[{"id":"a","v":1}],"maps":{"k":{"x":1}}}`,
			new:  `{"items":[{"id":"a","v":1}],"maps":{"k":{"x":1}}}`,
			want: Result{},
		},
		{
			name: "changed and removed ids",
			old:  `{"items":[{"id":"a","v":1},{"id":"b","v":1}]}`,
			new:  `{"items":[{"id":"a","v":2}]}`,
			want: Result{"items": {"a", "b"}},
		},
		{
			name: "added id",
			old:  `{"items":[{"id":"a","v":1}]}`,
			new:  `{"items":[{"id":"a","v":1},{"id":"c","v":1}]}`,
			want: Result{"items": {"c"}},
		},
		{
			name: "reordered ids are unchanged",
			old:  `{"items":[{"id":"a"},{"id":"b"}]}`,
			new:  `{"items":[{"id":"b"},{"id":"a"}]}`,
			want: Result{},
		},
		{
			name: "type removed",
			old:  `{"tasks":[{"id":"t1"},{"id":"t2"},{"id":"t3"}],"items":[]}`,
			new:  `{"items":[]}`,
			want: Result{"tasks": {}},
		},
		{
			name: "type null in new",
			old:  `{"tasks":[{"id":"t1"}]}`,
			new:  `{"tasks":null}`,
			want: Result{"tasks": {}},
		},
		{
			name: "type only in new",
			old:  `{"items":[]}`,
			new:  `{"items":[],"quests":[{"id":"q1"}]}`,
			want: Result{"quests": {}},
		},
		{
			name: "ignored types",
			old:  `{"updated":"2024-01-01T00:00:00Z","data":1,"ItemType":["a"],"items":[]}`,
			new:  `{"updated":"2024-01-02T00:00:00Z","data":2,"LanguageCode":["en"],"items":[]}`,
			want: Result{},
		},
		{
			name: "mapping keys",
			old:  `{"maps":{"k1":{"x":1},"k2":{"x":1},"k4":{"x":1}}}`,
			new:  `{"maps":{"k1":{"x":2},"k2":{"x":1},"k3":{"x":1}}}`,
			want: Result{"maps": {"k1", "k4", "k3"}},
		},
		{
			name: "mapping entries with ids",
			old:  `{"maps":{"k1":{"id":"m1","x":1}}}`,
			new:  `{"maps":{"k1":{"id":"m1","x":2}}}`,
			want: Result{"maps": {"m1"}},
		},
		{
			name: "positional change",
			old:  `{"levels":[{"xp":1},{"xp":2}]}`,
			new:  `{"levels":[{"xp":1},{"xp":3}]}`,
			want: Result{"levels": {}},
		},
		{
			name: "positional addition",
			old:  `{"levels":[{"xp":1}]}`,
			new:  `{"levels":[{"xp":1},{"xp":2}]}`,
			want: Result{"levels": {}},
		},
		{
			name: "whole marker wins over ids",
			old:  `{"mixed":[{"id":"a","v":1},{"v":1}]}`,
			new:  `{"mixed":[{"id":"a","v":2},{"v":2}]}`,
			want: Result{"mixed": {}},
		},
		{
			name: "shape mismatch",
			old:  `{"items":[{"id":"a"}]}`,
			new:  `{"items":{"a":{"id":"a"}}}`,
			want: Result{"items": {}},
		},
		{
			name: "scalar change",
			old:  `{"version":1}`,
			new:  `{"version":2}`,
			want: Result{"version": {}},
		},
		{
			name: "numeric ids",
			old:  `{"traders":[{"id":5,"name":"x"}]}`,
			new:  `{"traders":[{"id":5,"name":"y"}]}`,
			want: Result{"traders": {"5"}},
		},
		{
			name: "nested sequence order matters",
			old:  `{"items":[{"id":"a","tags":[1,2]}]}`,
			new:  `{"items":[{"id":"a","tags":[2,1]}]}`,
			want: Result{"items": {"a"}},
		},
		{
			name: "nested key order ignored",
			old:  `{"items":[{"id":"a","props":{"w":1,"h":2}}]}`,
			new:  `{"items":[{"id":"a","props":{"h":2,"w":1}}]}`,
			want: Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Diff(context.Background(), snap(t, tt.old), snap(t, tt.new), DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_Options(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want Result
	}{
		{
			name: "alias",
			old:  `{"HandbookCategory":[{"id":"h1","n":1}]}`,
			new:  `{"HandbookCategory":[{"id":"h1","n":2}]}`,
			want: Result{"ItemCategory": {"h1"}},
		},
		{
			name: "whole type",
			old:  `{"Barter":[{"id":"b1","n":1}]}`,
			new:  `{"Barter":[{"id":"b1","n":2}]}`,
			want: Result{"Barter": {}},
		},
		{
			name: "linked type",
			old:  `{"TraderCashOffer":[{"id":"o1","p":1}],"ItemPrice":[{"id":"i1"}]}`,
			new:  `{"TraderCashOffer":[{"id":"o1","p":2}],"ItemPrice":[{"id":"i1"}]}`,
			want: Result{"TraderCashOffer": {}, "ItemPrice": {}},
		},
		{
			name: "linked type overrides ids",
			old:  `{"TraderCashOffer":[{"id":"o1","p":1}],"ItemPrice":[{"id":"i1","p":1}]}`,
			new:  `{"TraderCashOffer":[{"id":"o1","p":2}],"ItemPrice":[{"id":"i1","p":2}]}`,
			want: Result{"TraderCashOffer": {}, "ItemPrice": {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Diff(context.Background(), snap(t, tt.old), snap(t, tt.new), DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_ZeroOptions(t *testing.T) {
	old := snap(t, `{"updated":"a","HandbookCategory":[{"id":"h1","n":1}]}`)
	cur := snap(t, `{"updated":"b","HandbookCategory":[{"id":"h1","n":2}]}`)

	got, err := Diff(context.Background(), old, cur, Options{})

	require.NoError(t, err)
	assert.Equal(t, Result{"updated": {}, "HandbookCategory": {"h1"}}, got)
}

func TestDiff_SelfIsEmpty(t *testing.T) {
	s := snap(t, `{"items":[{"id":"a","v":[1,2,{"x":null}]},{"v":true}],"maps":{"k":"v"},"count":3}`)

	got, err := Diff(context.Background(), s, s, DefaultOptions())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiff_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Diff(ctx, snap(t, `{"items":[]}`), snap(t, `{"items":[]}`), DefaultOptions())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult(t *testing.T) {
	r := Result{"items": {"a", "b"}, "Barter": {}, "maps": {"k"}}

	assert.Equal(t, []string{"Barter", "items", "maps"}, r.Types())
	assert.True(t, r.Whole("Barter"))
	assert.False(t, r.Whole("items"))
	assert.False(t, r.Whole("quests"))
	assert.Equal(t, 3, r.Count())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(map[string]any{"a": 1.0}, map[string]any{"a": 1.0}))
	assert.False(t, Equal(map[string]any{"a": 1.0}, map[string]any{"a": 2.0}))
	assert.True(t, Equal("x", "x"))
	assert.False(t, Equal("x", 1.0))
	assert.False(t, Equal([]any{1.0}, map[string]any{"0": 1.0}))
}

func TestRender(t *testing.T) {
	old := []any{map[string]any{"id": "a", "v": 1.0}}
	cur := []any{map[string]any{"id": "a", "v": 2.0}}

	out, err := Render(old, cur, false)
	require.NoError(t, err)
	assert.Contains(t, out, "records")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "+")

	out, err = Render(old, old, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}
