// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the catalog API.
// Handlers are grouped by resource (categories, contents) and receive
// their dependencies through the handler struct. Every response body is
// JSON.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"catalogapi/internal/models"
)

// CategoryRepository is the data access the category handlers need.
// Lookups return (nil, nil) when the record does not exist.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// CategoryNames answers whether a category name exists. Content
// validation uses it for the category_name reference.
type CategoryNames interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ContentRepository is the data access the content handlers need.
// Lookups return (nil, nil) when the record does not exist.
type ContentRepository interface {
	List(ctx context.Context) ([]models.Content, error)
	ListByCategory(ctx context.Context, categoryName string) ([]models.Content, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
	NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Content) (*models.Content, error)
	Update(ctx context.Context, c *models.Content) (*models.Content, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Content, error)
}

// ImageStore persists uploaded images and returns the relative path that
// gets recorded in the image column.
type ImageStore interface {
	Put(ctx context.Context, namespace, ext, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, path string) error
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// serverError logs err and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeMessage(w, http.StatusInternalServerError, "Server Error")
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not Found.")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed.")
}

// pathParam returns the decoded URL parameter key. chi matches on the raw
// path when the request carries escaped slashes, so decode in that case.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// idParam parses the UUID in URL parameter key. A malformed id can never
// match a record, so callers treat false as not found.
func idParam(r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	return id, err == nil
}
