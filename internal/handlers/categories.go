// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"catalogapi/internal/models"
	"catalogapi/internal/storage"
)

// Response messages shared by both resources.
const (
	msgBadBody          = "The request body could not be parsed."
	msgCategoryNotFound = "Category not found."
	msgCategoryDeleted  = "Category deleted successfully."
)

// Categories groups the category HTTP handlers and their dependencies.
type Categories struct {
	categories CategoryRepository
	images     ImageStore
	maxImage   int64
}

// NewCategories creates the category handlers. maxImageBytes caps uploads.
func NewCategories(categories CategoryRepository, images ImageStore, maxImageBytes int64) *Categories {
	return &Categories{
		categories: categories,
		images:     images,
		maxImage:   maxImageBytes,
	}
}

// categoryInput is a validated create/update request.
type categoryInput struct {
	name   string
	image  *string
	upload *upload
}

// validate applies the category field rules. exclude is the record being
// updated, which may keep its own name.
func (h *Categories) validate(ctx context.Context, f *form, exclude *uuid.UUID) (*categoryInput, FieldErrors, error) {
	var errs FieldErrors
	in := &categoryInput{name: requiredString(f, &errs, "name", maxCategoryNameLen)}
	if !errs.Has("name") {
		taken, err := h.categories.NameTaken(ctx, in.name, exclude)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			errs.Add("name", msgNameTaken)
		}
	}
	in.image, in.upload = imageField(f, &errs, h.maxImage)
	return in, errs, nil
}

// List returns every category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List(r.Context())
	if err != nil {
		serverError(w, r, "failed to list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Show returns one category.
func (h *Categories) Show(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create validates the request, stores an uploaded image and inserts the
// category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, err := parseForm(w, r, h.maxImage)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadBody)
		return
	}
	in, errs, err := h.validate(ctx, f, nil)
	if err != nil {
		serverError(w, r, "failed to validate category", err)
		return
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}

	image := in.image
	if in.upload != nil {
		path, err := in.upload.store(ctx, h.images, storage.CategoryImages)
		if err != nil {
			serverError(w, r, "failed to store category image", err)
			return
		}
		image = &path
	}

	created, err := h.categories.Create(ctx, &models.Category{Name: in.name, Image: image})
	if err != nil {
		if !writeConstraint(w, err) {
			serverError(w, r, "failed to create category", err)
		}
		return
	}

	slog.Info("category created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces every field of a category. A newly uploaded image
// replaces the previous file in the image store.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
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
		serverError(w, r, "failed to validate category", err)
		return
	}
	if len(errs) > 0 {
		errs.write(w)
		return
	}

	image := in.image
	if in.upload != nil {
		path, err := in.upload.store(ctx, h.images, storage.CategoryImages)
		if err != nil {
			serverError(w, r, "failed to store category image", err)
			return
		}
		discardImage(ctx, h.images, current.Image)
		image = &path
	}

	updated, err := h.categories.Update(ctx, &models.Category{ID: current.ID, Name: in.name, Image: image})
	if err != nil {
		if !writeConstraint(w, err) {
			serverError(w, r, "failed to update category", err)
		}
		return
	}
	if updated == nil {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	slog.Info("category updated", "id", updated.ID, "name", updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a category. Contents filed under it go with it.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "category")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	deleted, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "failed to delete category", err)
		return
	}
	if deleted == nil {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}

	slog.Info("category deleted", "id", deleted.ID, "name", deleted.Name)
	writeMessage(w, http.StatusOK, msgCategoryDeleted)
}

// find loads the category named by the URL, answering 404 itself when it
// does not exist.
func (h *Categories) find(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, ok := idParam(r, "category")
	if !ok {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return nil, false
	}
	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "failed to load category", err)
		return nil, false
	}
	if c == nil {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return nil, false
	}
	return c, true
}

// discardImage removes a replaced image. Paths the store did not hand out
// are left alone; other failures are logged and ignored.
func discardImage(ctx context.Context, images ImageStore, path *string) {
	if path == nil {
		return
	}
	err := images.Delete(ctx, *path)
	switch {
	case errors.Is(err, storage.ErrForeignPath):
		slog.Debug("previous image is not a stored upload, left in place", "image", *path)
	case err != nil:
		slog.Warn("failed to delete previous image", "image", *path, "error", err)
	}
}
