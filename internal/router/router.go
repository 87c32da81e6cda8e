// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// catalog API.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"catalogapi/internal/handlers"
	"catalogapi/internal/middleware"
)

// Options configures the parts of the router that depend on deployment.
type Options struct {
	// AllowedOrigins are the browser origins allowed by CORS.
	AllowedOrigins []string
	// PublicDir, when set, is served at /storage/ so locally stored image
	// paths resolve. Leave empty when images live in object storage.
	PublicDir string
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(categories *handlers.Categories, contents *handlers.Contents, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{chimw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", healthHandler)

	// {category} is an id on the item routes and a name on the contents
	// listing; chi needs one parameter name per path segment.
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

	if opts.PublicDir != "" {
		r.Get("/storage/*", publicFiles(opts.PublicDir))
	}

	return r
}

// publicFiles serves stored images from dir without directory listings.
func publicFiles(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			handlers.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
