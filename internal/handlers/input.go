// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// formOverhead is the body allowance on top of the image cap for the other
// multipart fields. An oversized image must still parse so that it can be
// reported as a field error.
const formOverhead = 8 << 20

// errBadBody marks a request body that could not be decoded at all.
var errBadBody = errors.New("malformed request body")

// form is a decoded create/update request. Values hold strings, nil, or
// whatever JSON produced (json.Number, bool, objects). Strings are trimmed
// and empty strings become nil.
type form struct {
	values map[string]any
	image  *multipart.FileHeader
}

// has reports whether field was present with a non-null value.
func (f *form) has(field string) bool {
	return f.values[field] != nil
}

// parseForm decodes a JSON, multipart or urlencoded body.
func parseForm(w http.ResponseWriter, r *http.Request, maxImage int64) (*form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	f := &form{values: map[string]any{}}

	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxImage+formOverhead)
		if err := r.ParseMultipartForm(maxImage + 1<<20); err != nil {
			return nil, errBadBody
		}
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				f.values[k] = vs[0]
			}
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			f.image = files[0]
			delete(f.values, "image")
		}

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, formOverhead)
		if err := r.ParseForm(); err != nil {
			return nil, errBadBody
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				f.values[k] = vs[0]
			}
		}

	default:
		r.Body = http.MaxBytesReader(w, r.Body, formOverhead)
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&f.values); err != nil && !errors.Is(err, io.EOF) {
			return nil, errBadBody
		}
		if f.values == nil {
			// A literal null body.
			f.values = map[string]any{}
		}
	}

	for k, v := range f.values {
		f.values[k] = normalize(v)
	}
	return f, nil
}

// normalize trims strings and turns empty strings into nil.
func normalize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}
