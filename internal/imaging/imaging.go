// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects uploaded images before they are stored. The
// content type is sniffed from the file itself, never trusted from the
// client, and the image header must decode for the upload to be accepted.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Upload rejections. Callers turn these into field messages.
var (
	ErrNotImage        = errors.New("imaging: file is not an image")
	ErrUnsupportedType = errors.New("imaging: unsupported image type")
	ErrTooLarge        = errors.New("imaging: file too large")
)

// maxImagePixels caps decoded dimensions to refuse decompression bombs.
const maxImagePixels = 50_000_000

// allowedTypes maps accepted MIME types to the extension used when storing.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AllowedExtensions lists the accepted file types for user-facing messages.
const AllowedExtensions = "jpeg, png, jpg, webp"

// Info describes an accepted image.
type Info struct {
	ContentType string // sniffed MIME type
	Ext         string // storage extension including the dot
	Width       int
	Height      int
	Size        int64
}

// Inspect validates an uploaded image of the given size against maxBytes
// and the allowed types. The reader is rewound before returning.
func Inspect(r io.ReadSeeker, size, maxBytes int64) (*Info, error) {
	if size > maxBytes {
		return nil, ErrTooLarge
	}

	// Detect content type by sniffing the first 512 bytes.
	sniff := make([]byte, 512)
	n, err := io.ReadFull(r, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("imaging: read: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("imaging: seek: %w", err)
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, ErrNotImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, ErrTooLarge
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("imaging: seek: %w", err)
	}

	return &Info{
		ContentType: contentType,
		Ext:         ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        size,
	}, nil
}
