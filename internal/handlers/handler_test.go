// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory repositories, a temp-dir image store and request helpers.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"catalogapi/internal/models"
	"catalogapi/internal/storage"
	"catalogapi/internal/store"
)

// testMaxImage is the upload cap used by handler tests.
const testMaxImage = 16 << 10

// fakeCategories is an in-memory CategoryRepository.
type fakeCategories struct {
	mu      sync.Mutex
	items   []models.Category
	err     error // returned by every method when set
	failing error // returned by Create and Update when set
}

func (f *fakeCategories) List(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Category{}, f.items...), nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) ExistsByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, c := range f.items {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) NameTaken(_ context.Context, name string, exclude *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.taken(name, exclude), nil
}

func (f *fakeCategories) taken(name string, exclude *uuid.UUID) bool {
	for _, c := range f.items {
		if c.Name == name && (exclude == nil || c.ID != *exclude) {
			return true
		}
	}
	return false
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	if f.taken(c.Name, nil) {
		return nil, store.ErrDuplicateName
	}
	now := time.Now()
	created := models.Category{ID: uuid.New(), Name: c.Name, Image: c.Image, CreatedAt: now, UpdatedAt: now}
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	if f.taken(c.Name, &c.ID) {
		return nil, store.ErrDuplicateName
	}
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i].Name = c.Name
			f.items[i].Image = c.Image
			f.items[i].UpdatedAt = time.Now()
			updated := f.items[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return &c, nil
		}
	}
	return nil, nil
}

// fakeContents is an in-memory ContentRepository.
type fakeContents struct {
	mu      sync.Mutex
	items   []models.Content
	err     error
	failing error
}

func (f *fakeContents) List(_ context.Context) ([]models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Content{}, f.items...), nil
}

func (f *fakeContents) ListByCategory(_ context.Context, categoryName string) ([]models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Content{}
	for _, c := range f.items {
		if c.CategoryName == categoryName {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContents) FindByID(_ context.Context, id uuid.UUID) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeContents) NameTaken(_ context.Context, name string, exclude *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.taken(name, exclude), nil
}

func (f *fakeContents) taken(name string, exclude *uuid.UUID) bool {
	for _, c := range f.items {
		if c.Name == name && (exclude == nil || c.ID != *exclude) {
			return true
		}
	}
	return false
}

func (f *fakeContents) Create(_ context.Context, c *models.Content) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	if f.taken(c.Name, nil) {
		return nil, store.ErrDuplicateName
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeContents) Update(_ context.Context, c *models.Content) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failing != nil {
		return nil, f.failing
	}
	if f.taken(c.Name, &c.ID) {
		return nil, store.ErrDuplicateName
	}
	for i := range f.items {
		if f.items[i].ID == c.ID {
			updated := *c
			updated.CreatedAt = f.items[i].CreatedAt
			updated.UpdatedAt = time.Now()
			f.items[i] = updated
			return &updated, nil
		}
	}
	return nil, nil
}

func (f *fakeContents) Delete(_ context.Context, id uuid.UUID) (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return &c, nil
		}
	}
	return nil, nil
}

// testEnv holds the handlers under test and their fake dependencies.
type testEnv struct {
	Categories *fakeCategories
	Contents   *fakeContents
	ImageRoot  string
	Router     http.Handler
}

// newTestEnv wires both handler groups onto a chi router the way the
// application does.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	images, err := storage.NewLocal(root)
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}

	env := &testEnv{
		Categories: &fakeCategories{},
		Contents:   &fakeContents{},
		ImageRoot:  root,
	}
	categories := NewCategories(env.Categories, images, testMaxImage)
	contents := NewContents(env.Contents, env.Categories, images, testMaxImage)

	r := chi.NewRouter()
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Post("/", categories.Create)
		r.Get("/{category}", categories.Show)
		r.Put("/{category}", categories.Update)
		r.Delete("/{category}", categories.Delete)
		r.Get("/{category}/contents", contents.ListByCategory)
	})
	r.Route("/contents", func(r chi.Router) {
		r.Get("/", contents.List)
		r.Post("/", contents.Create)
		r.Get("/{content}", contents.Show)
		r.Put("/{content}", contents.Update)
		r.Delete("/{content}", contents.Delete)
	})
	env.Router = r
	return env
}

// doJSON sends body encoded as JSON. A string body is sent verbatim.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends fields plus an optional "image" file part.
func (e *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(file)
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// storedFile returns the on-disk location of a stored image path.
func (e *testEnv) storedFile(path string) string {
	return filepath.Join(e.ImageRoot, filepath.FromSlash(strings.TrimPrefix(path, "storage/")))
}

// seedCategory inserts a category directly into the fake.
func (e *testEnv) seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := e.Categories.Create(context.Background(), &models.Category{Name: name})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return *c
}

// seedContent inserts a content item directly into the fake.
func (e *testEnv) seedContent(t *testing.T, categoryName, name string) models.Content {
	t.Helper()
	c, err := e.Contents.Create(context.Background(), &models.Content{
		CategoryName: categoryName,
		Name:         name,
		Description:  "seeded",
	})
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	return *c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// validationBody is the shape of a 422 response.
type validationBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// pngBytes encodes a w x h PNG. noisy images compress poorly, which makes
// them useful for size limit tests.
func pngBytes(t *testing.T, w, h int, noisy bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(7)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 200, G: 40, B: 90, A: 255}
			if noisy {
				seed = seed*1664525 + 1013904223
				c = color.RGBA{R: uint8(seed >> 24), G: uint8(seed >> 16), B: uint8(seed >> 8), A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
