// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/tarkovdev/purgectl/internal/log"
)

// Dir reads snapshots from a dumps directory: <Root>/<dataset>.json holds the
// new snapshot and <Root>/<dataset>_old.json the previous one.
type Dir struct {
	Root string
}

// NewDir returns a Dir store rooted at root. Relative roots are resolved
// against the working directory.
func NewDir(root string) (*Dir, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(cwd, root)
	}
	log.Debugf("snapshot dir store: root=%s", root)
	return &Dir{Root: root}, nil
}

// Path returns the file holding the given snapshot version.
func (d *Dir) Path(dataset string, v Version) string {
	name := dataset + ".json"
	if v == Old {
		name = dataset + "_old.json"
	}
	return filepath.Join(d.Root, name)
}

// Read implements Store.
func (d *Dir) Read(ctx context.Context, dataset string, v Version) (Snapshot, error) {
	if err := validName(dataset); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := d.Path(dataset, v)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s %s snapshot: %w", dataset, v, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	log.Debugf("read %s %s snapshot from %s (%s)", dataset, v, p, humanize.Bytes(uint64(len(data))))

	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return snap, nil
}
