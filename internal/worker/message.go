// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tarkovdev/purgectl/internal/differ"
)

// Level classifies a worker Message.
type Level string

const (
	LevelLog      Level = "log"
	LevelWarn     Level = "warn"
	LevelError    Level = "error"
	LevelComplete Level = "complete"
)

// completeMessage is the text carried by a complete message on the wire.
const completeMessage = "complete"

// Message is one entry of a worker's message stream. Diff and Updated are only
// set on LevelComplete messages. A stream ends with exactly one complete or
// error message unless the worker was terminated.
type Message struct {
	Level   Level
	Message string
	Diff    differ.Result
	Updated time.Time
}

// Terminal reports whether m ends a stream.
func (m Message) Terminal() bool {
	return m.Level == LevelComplete || m.Level == LevelError
}

// wireMessage is the JSON line form of a Message. Completion is sent as a log
// message with the text "complete".
type wireMessage struct {
	Level   string        `json:"level"`
	Message string        `json:"message"`
	Diff    differ.Result `json:"diff,omitempty"`
	Updated *time.Time    `json:"updated,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{Level: string(m.Level), Message: m.Message}
	if m.Level == LevelComplete {
		w.Level = string(LevelLog)
		w.Message = completeMessage
		w.Diff = m.Diff
		if w.Diff == nil {
			w.Diff = differ.Result{}
		}
		if !m.Updated.IsZero() {
			updated := m.Updated
			w.Updated = &updated
		}
	}
	return json.Marshal(w)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch Level(w.Level) {
	case LevelLog, LevelWarn, LevelError:
	default:
		return fmt.Errorf("unknown message level %q", w.Level)
	}

	*m = Message{Level: Level(w.Level), Message: w.Message}
	if m.Level == LevelLog && w.Message == completeMessage {
		m.Level = LevelComplete
		m.Message = ""
		m.Diff = w.Diff
		if m.Diff == nil {
			m.Diff = differ.Result{}
		}
		if w.Updated != nil {
			m.Updated = *w.Updated
		}
	}
	return nil
}

func logf(format string, args ...any) Message {
	return Message{Level: LevelLog, Message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) Message {
	return Message{Level: LevelWarn, Message: fmt.Sprintf(format, args...)}
}

func errorf(format string, args ...any) Message {
	return Message{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}
