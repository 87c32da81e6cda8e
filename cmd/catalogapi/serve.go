// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/handlers"
	"catalogapi/internal/router"
	"catalogapi/internal/storage"
	"catalogapi/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	Long:  "Connects to PostgreSQL, applies pending migrations and serves the API until SIGINT or SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	images, publicDir, err := newImageStore(cfg)
	if err != nil {
		return err
	}

	categoryStore := store.NewCategoryStore(db)
	contentStore := store.NewContentStore(db)

	categories := handlers.NewCategories(categoryStore, images, cfg.MaxImageBytes)
	contents := handlers.NewContents(contentStore, categoryStore, images, cfg.MaxImageBytes)

	r := router.New(categories, contents, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		PublicDir:      publicDir,
	})

	// Uploads are synchronous, so allow for slow clients on write.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newImageStore builds the configured image backend. publicDir is the
// directory the router must serve, empty for object storage.
func newImageStore(cfg *config.Config) (images handlers.ImageStore, publicDir string, err error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	default:
		local, err := storage.NewLocal(cfg.StorageLocalRoot)
		if err != nil {
			return nil, "", err
		}
		return local, local.Root(), nil
	}
}
