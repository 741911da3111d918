// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tarkovdev/purgectl/internal/log"
)

// Entry represents a cached artifact on disk.
// Key is the clear-text key; EncodedKey is the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Cache is an on-disk blob cache rooted at Dir. The zero value is disabled.
type Cache struct {
	Dir     string
	Enabled bool
}

// New resolves a Cache from the environment.
// Directory precedence:
//  1. PURGECTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/purgectl
//
// The cache is enabled unless PURGECTL_CACHE is "0" or "false", or no
// directory can be resolved.
func New() *Cache {
	dir, ok := Dir()
	return &Cache{Dir: dir, Enabled: ok && Enabled()}
}

// Dir resolves the base cache directory. Returns ("", false) if a base cannot
// be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("PURGECTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "purgectl"), true
	}
	return "", false
}

// Enabled returns true unless PURGECTL_CACHE explicitly disables it.
func Enabled() bool {
	enabled, _ := os.LookupEnv("PURGECTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// usable reports whether c can serve reads and writes.
func (c *Cache) usable() bool {
	return c != nil && c.Enabled && c.Dir != ""
}

// EnsureBaseDir creates the base directory. Returns whether the cache is
// usable and an error if creation failed.
func (c *Cache) EnsureBaseDir() (bool, error) {
	if !c.usable() {
		return false, nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil { //nolint:mnd
		return false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("cache dir ready: path=%s", c.Dir)
	return true, nil
}

// EntryPath returns the path where an entry for clearKey beneath subdirs
// lives, and whether a file currently exists there.
func (c *Cache) EntryPath(subdirs []string, clearKey string) (string, bool) {
	if c == nil || c.Dir == "" {
		return "", false
	}
	p := filepath.Join(append([]string{c.Dir}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache is unusable, it is a no-op.
func (c *Cache) Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	if !c.usable() {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(c.Dir, func(path string, info os.FileInfo, walkErr error) error {
		// Concurrent purgectl runs may remove the same files underneath us.
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read attempts to read a cached entry.
func (c *Cache) Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !c.usable() {
		return nil, false
	}
	p, ok := c.EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       bytes.TrimSpace(b),
	}, true
}

// Write stores data for the given key beneath subdirs. Creates directories as
// needed. The file is written to a temp name and renamed so readers never see
// a partial entry.
func (c *Cache) Write(subdirs []string, clearKey string, data []byte) error {
	if !c.usable() {
		return nil // treat as disabled.
	}
	dir := filepath.Join(append([]string{c.Dir}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	p := filepath.Join(dir, encodeKey(clearKey))
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
