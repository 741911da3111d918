// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"github.com/apex/log"
)

// DatasetLogger relays pipeline messages for one dataset to the apex logger.
// It satisfies delta.Logger.
type DatasetLogger struct {
	entry *log.Entry
}

// ForDataset returns a DatasetLogger tagging every line with the dataset name.
func ForDataset(name string) *DatasetLogger {
	return &DatasetLogger{entry: log.WithField("dataset", name)}
}

// Log writes at Info level.
func (l *DatasetLogger) Log(msg string) {
	l.entry.Info(msg)
}

// Warn writes at Warn level.
func (l *DatasetLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Error writes at Error level.
func (l *DatasetLogger) Error(msg string) {
	l.entry.Error(msg)
}
