// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir_WithEnv verifies Dir() respects PURGECTL_CACHE_DIR.
func TestDir_WithEnv(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("PURGECTL_CACHE_DIR", customDir)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

// TestDir_WithoutEnv verifies Dir() falls back to os.UserCacheDir/purgectl.
func TestDir_WithoutEnv(t *testing.T) {
	t.Setenv("PURGECTL_CACHE_DIR", "")

	result, ok := Dir()

	if ok {
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "purgectl", filepath.Base(result))
	}
}

// TestEnabled verifies only "0" and "false" disable caching.
func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"1", "1", true},
		{"true", "true", true},
		{"empty string", "", true},
		{"0", "0", false},
		{"false", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PURGECTL_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

// TestNew verifies New() wires dir and enablement from the environment.
func TestNew(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PURGECTL_CACHE_DIR", dir)

	t.Setenv("PURGECTL_CACHE", "1")
	c := New()
	assert.Equal(t, dir, c.Dir)
	assert.True(t, c.Enabled)

	t.Setenv("PURGECTL_CACHE", "0")
	assert.False(t, New().Enabled)
}

// TestZeroValueIsDisabled verifies a nil or zero Cache never touches disk.
func TestZeroValueIsDisabled(t *testing.T) {
	var nilCache *Cache
	entry, ok := nilCache.Read([]string{"x"}, "k")
	assert.False(t, ok)
	assert.Nil(t, entry)
	assert.NoError(t, nilCache.Write([]string{"x"}, "k", []byte("v")))

	c := &Cache{}
	usable, err := c.EnsureBaseDir()
	assert.False(t, usable)
	assert.NoError(t, err)
}

// TestEnsureBaseDir_CreatesDirectory verifies nested creation.
func TestEnsureBaseDir_CreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache", "nested")
	c := &Cache{Dir: cacheDir, Enabled: true}

	ok, err := c.EnsureBaseDir()

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.DirExists(t, cacheDir)
}

// TestEntryPath verifies the computed path and existence flag.
func TestEntryPath(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir, Enabled: true}

	path, exists := c.EntryPath([]string{"bucket", "prefix"}, "my-key")
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(dir, "bucket", "prefix", encodeKey("my-key")), path)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	_, exists = c.EntryPath([]string{"bucket", "prefix"}, "my-key")
	assert.True(t, exists)
}

// TestWriteRead_RoundTrip verifies a written entry reads back trimmed.
func TestWriteRead_RoundTrip(t *testing.T) {
	c := &Cache{Dir: t.TempDir(), Enabled: true}

	err := c.Write([]string{"snapshots", "items"}, "v1", []byte("  {\"a\":1}\n"))
	require.NoError(t, err)

	entry, ok := c.Read([]string{"snapshots", "items"}, "v1")

	require.True(t, ok)
	assert.Equal(t, "v1", entry.Key)
	assert.Equal(t, encodeKey("v1"), entry.EncodedKey)
	assert.Equal(t, []byte(`{"a":1}`), entry.Data)
}

// TestWrite_FilePermissions verifies entries are user read/write only.
func TestWrite_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir, Enabled: true}

	require.NoError(t, c.Write(nil, "perm", []byte("x")))

	info, err := os.Stat(filepath.Join(dir, encodeKey("perm")))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// TestWrite_OverwritesExisting verifies the second write wins and leaves no
// temp files behind.
func TestWrite_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir, Enabled: true}

	require.NoError(t, c.Write(nil, "k", []byte("old")))
	require.NoError(t, c.Write(nil, "k", []byte("new")))

	entry, ok := c.Read(nil, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), entry.Data)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

// TestWrite_Disabled verifies a disabled cache is a silent no-op.
func TestWrite_Disabled(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir, Enabled: false}

	assert.NoError(t, c.Write(nil, "k", []byte("v")))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

// TestPurge verifies only files older than the window are removed.
func TestPurge(t *testing.T) {
	dir := t.TempDir()
	c := &Cache{Dir: dir, Enabled: true}

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	oldPath := filepath.Join(nested, "old")
	recentPath := filepath.Join(dir, "recent")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(recentPath, []byte("recent"), 0o600))

	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	assert.NoError(t, c.Purge(0))
	assert.FileExists(t, oldPath)

	assert.NoError(t, c.Purge(1))
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, recentPath)
}

// TestEncodeKey verifies the hex sha256 encoding.
func TestEncodeKey(t *testing.T) {
	assert.Equal(t, encodeKey("k"), encodeKey("k"))
	assert.NotEqual(t, encodeKey("k1"), encodeKey("k2"))
	assert.Len(t, encodeKey("key/with/slashes"), 64)
}
