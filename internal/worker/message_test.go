// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarkovdev/purgectl/internal/differ"
)

func TestMessage_MarshalJSON(t *testing.T) {
	updated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "log",
			msg:  Message{Level: LevelLog, Message: "items diff generated in 4 ms"},
			want: `{"level":"log","message":"items diff generated in 4 ms"}`,
		},
		{
			name: "warn",
			msg:  Message{Level: LevelWarn, Message: TerminatedMessage},
			want: `{"level":"warn","message":"Diff worker terminated"}`,
		},
		{
			name: "complete",
			msg:  Message{Level: LevelComplete, Diff: differ.Result{"items": {"a"}, "tasks": {}}, Updated: updated},
			want: `{"level":"log","message":"complete","diff":{"items":["a"],"tasks":[]},"updated":"2024-03-01T10:00:00Z"}`,
		},
		{
			name: "complete without changes",
			msg:  Message{Level: LevelComplete},
			want: `{"level":"log","message":"complete"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestMessage_UnmarshalJSON(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"level":"log","message":"complete","diff":{"tasks":[]},"updated":"2024-03-01T10:00:00Z"}`), &m))
	assert.Equal(t, LevelComplete, m.Level)
	assert.Equal(t, differ.Result{"tasks": {}}, m.Diff)
	assert.True(t, m.Terminal())
	assert.Equal(t, 2024, m.Updated.Year())

	m = Message{}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"log","message":"complete"}`), &m))
	assert.Equal(t, differ.Result{}, m.Diff)
	assert.True(t, m.Updated.IsZero())

	m = Message{}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"error","message":"Error getting KV delta: boom"}`), &m))
	assert.Equal(t, LevelError, m.Level)
	assert.True(t, m.Terminal())

	assert.Error(t, json.Unmarshal([]byte(`{"level":"success","message":"x"}`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"level":`), &m))
}
