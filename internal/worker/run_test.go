// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

func collect(ch <-chan Message) []Message {
	var msgs []Message
	for m := range ch {
		msgs = append(msgs, m)
	}
	return msgs
}

func runAll(ctx context.Context, job Job, store snapshot.Store) []Message {
	var msgs []Message
	Run(ctx, job, store, differ.DefaultOptions(), func(m Message) { msgs = append(msgs, m) })
	return msgs
}

func itemsStore() *snapshot.Memory {
	store := snapshot.NewMemory()
	store.Put("items", snapshot.Old, snapshot.Snapshot{
		"items": []any{map[string]any{"id": "a", "v": 1.0}},
	})
	store.Put("items", snapshot.New, snapshot.Snapshot{
		"items":   []any{map[string]any{"id": "a", "v": 2.0}},
		"updated": "2024-03-01T10:00:00Z",
	})
	return store
}

func TestRun(t *testing.T) {
	msgs := runAll(context.Background(), Job{Dataset: "items"}, itemsStore())

	require.Len(t, msgs, 2)
	assert.Equal(t, LevelLog, msgs[0].Level)
	assert.Regexp(t, `^items diff generated in \d+ ms$`, msgs[0].Message)

	last := msgs[1]
	assert.Equal(t, LevelComplete, last.Level)
	assert.Equal(t, differ.Result{"items": {"a"}}, last.Diff)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), last.Updated.UTC())
}

func TestRun_InBandSnapshot(t *testing.T) {
	job := Job{Dataset: "items", Snapshot: snapshot.Snapshot{
		"items": []any{map[string]any{"id": "a", "v": 1.0}, map[string]any{"id": "b"}},
	}}

	msgs := runAll(context.Background(), job, itemsStore())

	require.NotEmpty(t, msgs)
	assert.Equal(t, differ.Result{"items": {"b"}}, msgs[len(msgs)-1].Diff)
}

func TestRun_FirstPublish(t *testing.T) {
	store := snapshot.NewMemory()
	job := Job{Dataset: "maps", Snapshot: snapshot.Snapshot{"maps": []any{}, "updated": 0.0}}

	msgs := runAll(context.Background(), job, store)

	require.Len(t, msgs, 3)
	assert.Equal(t, LevelLog, msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "No previous maps snapshot")
	assert.Equal(t, differ.Result{"maps": {}}, msgs[2].Diff)
}

func TestRun_MissingNewSnapshot(t *testing.T) {
	store := snapshot.NewMemory()
	store.Put("items", snapshot.Old, snapshot.Snapshot{"items": []any{}})

	msgs := runAll(context.Background(), Job{Dataset: "items"}, store)

	require.Len(t, msgs, 1)
	assert.Equal(t, LevelError, msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "Error getting KV delta")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msgs := runAll(ctx, Job{Dataset: "items"}, itemsStore())

	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Level: LevelWarn, Message: TerminatedMessage}, msgs[0])
}

type panicStore struct{}

func (panicStore) Read(context.Context, string, snapshot.Version) (snapshot.Snapshot, error) {
	panic("disk on fire")
}

func TestGoroutine_Start(t *testing.T) {
	r := &Goroutine{Store: itemsStore(), Options: differ.DefaultOptions()}

	ch, err := r.Start(context.Background(), Job{Dataset: "items"})
	require.NoError(t, err)

	msgs := collect(ch)
	require.NotEmpty(t, msgs)
	assert.Equal(t, LevelComplete, msgs[len(msgs)-1].Level)
}

func TestGoroutine_Panic(t *testing.T) {
	r := &Goroutine{Store: panicStore{}}

	ch, err := r.Start(context.Background(), Job{Dataset: "items"})
	require.NoError(t, err)

	msgs := collect(ch)
	require.Len(t, msgs, 1)
	assert.Equal(t, LevelError, msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "disk on fire")
}

func TestGoroutine_NoStore(t *testing.T) {
	_, err := (&Goroutine{}).Start(context.Background(), Job{Dataset: "items"})
	assert.Error(t, err)
}

func decodeLines(t *testing.T, out *bytes.Buffer) []Message {
	t.Helper()
	var msgs []Message
	dec := json.NewDecoder(out)
	for dec.More() {
		var m Message
		require.NoError(t, dec.Decode(&m))
		msgs = append(msgs, m)
	}
	return msgs
}

func TestServe(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"items":[{"id":"a","v":3}],"updated":"2024-03-01T10:00:00Z"}`)

	err := Serve(context.Background(), "items", in, &out, itemsStore(), differ.DefaultOptions())
	require.NoError(t, err)

	msgs := decodeLines(t, &out)
	require.Len(t, msgs, 2)
	assert.Equal(t, LevelComplete, msgs[1].Level)
	assert.Equal(t, differ.Result{"items": {"a"}}, msgs[1].Diff)
}

func TestServe_EmptyInputReadsStore(t *testing.T) {
	var out bytes.Buffer

	err := Serve(context.Background(), "items", strings.NewReader(""), &out, itemsStore(), differ.DefaultOptions())
	require.NoError(t, err)

	msgs := decodeLines(t, &out)
	require.NotEmpty(t, msgs)
	assert.Equal(t, differ.Result{"items": {"a"}}, msgs[len(msgs)-1].Diff)
}

func TestServe_InvalidInput(t *testing.T) {
	var out bytes.Buffer

	err := Serve(context.Background(), "items", strings.NewReader(`[1]`), &out, itemsStore(), differ.DefaultOptions())
	require.NoError(t, err)

	msgs := decodeLines(t, &out)
	require.Len(t, msgs, 1)
	assert.Equal(t, LevelError, msgs[0].Level)
}
