// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"catalogapi/internal/imaging"
	"catalogapi/internal/store"
)

// Validation limits.
const (
	maxCategoryNameLen = 20
	maxContentNameLen  = 30
)

// FieldError is one violated rule on one request field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects at most one error per field, in the order fields
// were checked.
type FieldErrors []FieldError

// Add records msg for field unless the field already failed.
func (e *FieldErrors) Add(field, msg string) {
	if e.Has(field) {
		return
	}
	*e = append(*e, FieldError{Field: field, Message: msg})
}

// Has reports whether field already failed.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Error returns the summary message, e.g. "The name field is required.
// (and 1 more error)".
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msg := e[0].Message
	switch n := len(e) - 1; n {
	case 0:
	case 1:
		msg += " (and 1 more error)"
	default:
		msg += fmt.Sprintf(" (and %d more errors)", n)
	}
	return msg
}

// write sends the 422 response body.
func (e FieldErrors) write(w http.ResponseWriter) {
	fields := make(map[string][]string, len(e))
	for _, fe := range e {
		fields[fe.Field] = []string{fe.Message}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": e.Error(),
		"errors":  fields,
	})
}

// label turns a field key into the words used in messages.
func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// requiredString checks a required string field of at most maxLen runes
// (0 for unlimited).
func requiredString(f *form, errs *FieldErrors, field string, maxLen int) string {
	v, ok := f.values[field]
	if !ok || v == nil {
		errs.Add(field, fmt.Sprintf("The %s field is required.", label(field)))
		return ""
	}
	s, ok := v.(string)
	if !ok {
		errs.Add(field, fmt.Sprintf("The %s field must be a string.", label(field)))
		return ""
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		errs.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), maxLen))
		return ""
	}
	return s
}

// optionalString checks a nullable string field.
func optionalString(f *form, errs *FieldErrors, field string) *string {
	v := f.values[field]
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		errs.Add(field, fmt.Sprintf("The %s field must be a string.", label(field)))
		return nil
	}
	return &s
}

// optionalCount checks a nullable non-negative integer field. Integer
// strings are accepted since multipart bodies carry only text.
func optionalCount(f *form, errs *FieldErrors, field string) *int {
	var raw string
	switch v := f.values[field].(type) {
	case nil:
		return nil
	case string:
		raw = v
	case json.Number:
		raw = v.String()
	default:
		errs.Add(field, fmt.Sprintf("The %s field must be an integer.", label(field)))
		return nil
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		errs.Add(field, fmt.Sprintf("The %s field must be an integer.", label(field)))
		return nil
	}
	if n < 0 {
		errs.Add(field, fmt.Sprintf("The %s field must be at least 0.", label(field)))
		return nil
	}
	i := int(n)
	return &i
}

// upload is an image file that passed validation and awaits storage.
type upload struct {
	header *multipart.FileHeader
	info   *imaging.Info
}

// store saves the upload under namespace and returns its stored path.
func (u *upload) store(ctx context.Context, images ImageStore, namespace string) (string, error) {
	file, err := u.header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()
	return images.Put(ctx, namespace, u.info.Ext, u.info.ContentType, file, u.info.Size)
}

// imageField checks the image field: either a nullable string path or an
// uploaded file. For a file it returns the inspected upload; the path
// result is then unused.
func imageField(f *form, errs *FieldErrors, maxImage int64) (*string, *upload) {
	if f.image == nil {
		if f.has("image") {
			if _, ok := f.values["image"].(string); !ok {
				errs.Add("image", "The image field must be a string or an image file.")
				return nil, nil
			}
		}
		return optionalString(f, errs, "image"), nil
	}

	file, err := f.image.Open()
	if err != nil {
		errs.Add("image", "The image failed to upload.")
		return nil, nil
	}
	defer file.Close()

	info, err := imaging.Inspect(file, f.image.Size, maxImage)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		errs.Add("image", fmt.Sprintf("The image field must not be greater than %d kilobytes.", maxImage/1024))
	case errors.Is(err, imaging.ErrUnsupportedType):
		errs.Add("image", "The image field must be a file of type: "+imaging.AllowedExtensions+".")
	case err != nil:
		errs.Add("image", "The image field must be an image.")
	default:
		return nil, &upload{header: f.image, info: info}
	}
	return nil, nil
}

// Messages for rules checked against stored data.
const (
	msgNameTaken       = "The name has already been taken."
	msgUnknownCategory = "The selected category does not exist."
)

// writeConstraint answers a store constraint violation as the matching
// field error. It reports false for any other error.
func writeConstraint(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		FieldErrors{{Field: "name", Message: msgNameTaken}}.write(w)
	case errors.Is(err, store.ErrUnknownCategory):
		FieldErrors{{Field: "category_name", Message: msgUnknownCategory}}.write(w)
	default:
		return false
	}
	return true
}
