// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarkovdev/purgectl/internal/config"
)

func TestDeduplicateFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "empty args",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "only program and command",
			args:     []string{"purgectl", "diff"},
			expected: []string{"purgectl", "diff"},
		},
		{
			name:     "no duplicates",
			args:     []string{"purgectl", "diff", "--output", "text", "--verbose", "items"},
			expected: []string{"purgectl", "diff", "--output", "text", "--verbose", "items"},
		},
		{
			name:     "duplicate flag with value - last wins",
			args:     []string{"purgectl", "diff", "--output", "json", "--verbose", "--output", "text"},
			expected: []string{"purgectl", "diff", "--verbose", "--output", "text"},
		},
		{
			name:     "duplicate boolean flag keeps positional",
			args:     []string{"purgectl", "diff", "--verbose", "items", "--verbose"},
			expected: []string{"purgectl", "diff", "items", "--verbose"},
		},
		{
			name:     "duplicate flag with equals syntax",
			args:     []string{"purgectl", "diff", "--output=json", "--verbose", "--output=text"},
			expected: []string{"purgectl", "diff", "--verbose", "--output=text"},
		},
		{
			name:     "mixed equals and space syntax - same flag",
			args:     []string{"purgectl", "diff", "--output=json", "--output", "text"},
			expected: []string{"purgectl", "diff", "--output", "text"},
		},
		{
			name:     "positional args preserved",
			args:     []string{"purgectl", "purge", "items", "--dir", "a", "maps", "--dir", "b"},
			expected: []string{"purgectl", "purge", "items", "maps", "--dir", "b"},
		},
		{
			name:     "short flags deduplicated",
			args:     []string{"purgectl", "diff", "-o", "json", "-o", "text"},
			expected: []string{"purgectl", "diff", "-o", "text"},
		},
		{
			name:     "repeatable flags kept",
			args:     []string{"purgectl", "purge", "--query", "items", "-q", "maps", "--query", "tasks"},
			expected: []string{"purgectl", "purge", "--query", "items", "-q", "maps", "--query", "tasks"},
		},
		{
			name:     "triple duplicate",
			args:     []string{"purgectl", "purge", "--token", "a", "--token", "b", "--token", "c"},
			expected: []string{"purgectl", "purge", "--token", "c"},
		},
		{
			name:     "everything after -- untouched",
			args:     []string{"purgectl", "diff", "--dir", "a", "--", "--dir", "b"},
			expected: []string{"purgectl", "diff", "--dir", "a", "--", "--dir", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deduplicateFlags(tt.args))
		})
	}
}

func TestInjectConfigSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		insertIdx int
		configVal []string
		expected  []string
	}{
		{
			name:      "empty config returns args unchanged",
			args:      []string{"purgectl", "diff", "--verbose"},
			insertIdx: 2,
			expected:  []string{"purgectl", "diff", "--verbose"},
		},
		{
			name:      "multi-word entry split",
			args:      []string{"purgectl", "diff", "items"},
			insertIdx: 2,
			configVal: []string{"--store s3", "--bucket tarkov"},
			expected:  []string{"purgectl", "diff", "--store", "s3", "--bucket", "tarkov", "items"},
		},
		{
			name:      "insert at index 3",
			args:      []string{"purgectl", "purge", "items", "maps"},
			insertIdx: 3,
			configVal: []string{"--production"},
			expected:  []string{"purgectl", "purge", "items", "--production", "maps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, injectConfigSet(tt.args, tt.configVal, tt.insertIdx))
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "purgectl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("purge:\n  prod:\n    - --production\n    - --store s3\n"), 0o600))
	_, err := config.Load(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	args := []string{"purgectl", "purge", "@prod", "items"}
	got := processSetOnly(args)

	assert.Equal(t, []string{"purgectl", "purge", "--production", "--store", "s3", "items"}, got)
	assert.Equal(t, []string{"purgectl", "purge", "@prod", "items"}, args)
	assert.Equal(t, []string{"purgectl", "diff"}, processSetOnly([]string{"purgectl", "diff"}))
}

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"purgectl", "--help"}, handleNakedCommand([]string{"purgectl"}))
	assert.Equal(t, []string{"purgectl", "diff"}, handleNakedCommand([]string{"purgectl", "diff"}))
}
