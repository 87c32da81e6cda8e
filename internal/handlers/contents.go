// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"catalogapi/internal/models"
	"catalogapi/internal/storage"
)

const (
	msgContentNotFound   = "Content not found."
	msgContentDeleted    = "Content deleted successfully."
	msgNoCategoryContent = "No contents found for this category."
)

// Contents groups the content HTTP handlers and their dependencies.
type Contents struct {
	contents   ContentRepository
	categories CategoryNames
	images     ImageStore
	maxImage   int64
}

// NewContents creates the content handlers. categories resolves the
// category_name reference; maxImageBytes caps uploads.
func NewContents(contents ContentRepository, categories CategoryNames, images ImageStore, maxImageBytes int64) *Contents {
	return &Contents{
		contents:   contents,
		categories: categories,
		images:     images,
		maxImage:   maxImageBytes,
	}
}

// contentInput is a validated create/update request.
type contentInput struct {
	content models.Content
	upload  *upload
}

// validate applies the content field rules. exclude is the record being
// updated, which may keep its own name.
func (h *Contents) validate(ctx context.Context, f *form, exclude *uuid.UUID) (*contentInput, FieldErrors, error) {
	var errs FieldErrors
	in := &contentInput{}
	c := &in.content

	c.CategoryName = requiredString(f, &errs, "category_name", 0)
	if !errs.Has("category_name") {
		exists, err := h.categories.ExistsByName(ctx, c.CategoryName)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			errs.Add("category_name", msgUnknownCategory)
		}
	}

	c.Name = requiredString(f, &errs, "name", maxContentNameLen)
	if !errs.Has("name") {
		taken, err := h.contents.NameTaken(ctx, c.Name, exclude)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			errs.Add("name", msgNameTaken)
		}
	}

	c.Description = requiredString(f, &errs, "description", 0)
	c.Image, in.upload = imageField(f, &errs, h.maxImage)
	c.Duration = optionalCount(f, &errs, "duration")
	c.NumberOfEpisodes = optionalCount(f, &errs, "number_of_episodes")
	c.Genre = optionalString(f, &errs, "genre")
	return in, errs, nil
}

// List returns every content item.
func (h *Contents) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.contents.List(r.Context())
	if err != nil {
		serverError(w, r, "failed to list contents", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListByCategory returns the content filed under the category named in
// the URL. An empty result is answered with 404.
func (h *Contents) ListByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.contents.ListByCategory(r.Context(), pathParam(r, "category"))
	if err != nil {
		serverError(w, r, "failed to list contents by category", err)
		return
	}
	if len(items) == 0 {
		writeMessage(w, http.StatusNotFound, msgNoCategoryContent)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Show returns one content item.
func (h *Contents) Show(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create validates the request, stores an uploaded image and inserts the
// content item.
func (h *Contents) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, err := parseForm(w, r, h.maxImage)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadBody)
		return
	}
	in, errs, err := h.validate(ctx, f, nil)
	if err != nil {
		serverError(w, r, "failed to validate content", err)
		return
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}

	if in.upload != nil {
		path, err := in.upload.store(ctx, h.images, storage.ContentImages)
		if err != nil {
			serverError(w, r, "failed to store content image", err)
			return
		}
		in.content.Image = &path
	}

	created, err := h.contents.Create(ctx, &in.content)
	if err != nil {
		if !writeConstraint(w, err) {
			serverError(w, r, "failed to create content", err)
		}
		return
	}

	slog.Info("content created", "id", created.ID, "name", created.Name, "category", created.CategoryName)
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces every field of a content item. Optional fields left out
// of the request are cleared.
func (h *Contents) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, ok := h.find(w, r)
	if !ok {
		return
	}

	f, err := parseForm(w, r, h.maxImage)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadBody)
		return
	}
	in, errs, err := h.validate(ctx, f, &current.ID)
	if err != nil {
		serverError(w, r, "failed to validate content", err)
		return
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}

	if in.upload != nil {
		path, err := in.upload.store(ctx, h.images, storage.ContentImages)
		if err != nil {
			serverError(w, r, "failed to store content image", err)
			return
		}
		discardImage(ctx, h.images, current.Image)
		in.content.Image = &path
	}

	in.content.ID = current.ID
	updated, err := h.contents.Update(ctx, &in.content)
	if err != nil {
		if !writeConstraint(w, err) {
			serverError(w, r, "failed to update content", err)
		}
		return
	}
	if updated == nil {
		writeMessage(w, http.StatusNotFound, msgContentNotFound)
		return
	}

	slog.Info("content updated", "id", updated.ID, "name", updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a content item.
func (h *Contents) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "content")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgContentNotFound)
		return
	}

	deleted, err := h.contents.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "failed to delete content", err)
		return
	}
	if deleted == nil {
		writeMessage(w, http.StatusNotFound, msgContentNotFound)
		return
	}

	slog.Info("content deleted", "id", deleted.ID, "name", deleted.Name)
	writeMessage(w, http.StatusOK, msgContentDeleted)
}

// find loads the content item named by the URL, answering 404 itself when
// it does not exist.
func (h *Contents) find(w http.ResponseWriter, r *http.Request) (*models.Content, bool) {
	id, ok := idParam(r, "content")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgContentNotFound)
		return nil, false
	}
	c, err := h.contents.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "failed to load content", err)
		return nil, false
	}
	if c == nil {
		writeMessage(w, http.StatusNotFound, msgContentNotFound)
		return nil, false
	}
	return c, true
}
