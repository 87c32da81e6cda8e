// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Local stores images under a directory on disk. The router serves that
// directory at /storage/ so stored paths resolve directly.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed and returns a Local store.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage root %s: %w", root, err)
	}
	slog.Info("local image storage ready", "root", root)
	return &Local{root: root}, nil
}

// Root returns the directory images are written to.
func (l *Local) Root() string {
	return l.root
}

// Put writes body to a new file in namespace and returns its stored path.
func (l *Local) Put(_ context.Context, namespace, ext, _ string, body io.Reader, _ int64) (string, error) {
	key := newKey(namespace, ext)
	dst := filepath.Join(l.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("local put %s: %w", key, err)
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local put %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("local write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("local close %s: %w", key, err)
	}
	return publicPath(key), nil
}

// Delete removes a previously stored image. A missing file is not an error.
func (l *Local) Delete(_ context.Context, p string) error {
	key, ok := keyFromPath(p)
	if !ok {
		return ErrForeignPath
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local delete %s: %w", key, err)
	}
	return nil
}
