// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage keeps uploaded images in a public blob store. Two
// backends exist: a local directory served by the API itself, and an
// S3-compatible bucket. Both hand out the same relative path format,
// "storage/<namespace>/<file>", which is what the database records.
package storage

import (
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the leading segment of every stored image path.
const PublicPrefix = "storage"

// Namespaces for uploaded images.
const (
	CategoryImages = "category_images"
	ContentImages  = "content_images"
)

// ErrForeignPath is returned when asked to delete a path this store did
// not hand out, including anything that tries to escape the store root.
var ErrForeignPath = errors.New("storage: path outside the public store")

// newKey returns a fresh object key "<namespace>/<uuid><ext>".
func newKey(namespace, ext string) string {
	return namespace + "/" + uuid.NewString() + ext
}

// publicPath converts an object key into the stored relative path.
func publicPath(key string) string {
	return PublicPrefix + "/" + key
}

// keyFromPath extracts the object key from a stored relative path.
// Returns false for paths outside the public prefix or with traversal.
func keyFromPath(p string) (string, bool) {
	key, ok := strings.CutPrefix(p, PublicPrefix+"/")
	if !ok || key == "" {
		return "", false
	}
	if strings.Contains(key, "\\") || path.Clean(key) != key || strings.HasPrefix(key, "../") || key == ".." {
		return "", false
	}
	return key, true
}
