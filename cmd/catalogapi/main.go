// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the catalog API. The root command
// serves HTTP; "migrate" manages the database schema.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"catalogapi/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "catalogapi",
	Short:         "Catalog API for categories and their content",
	Long:          "catalogapi serves the category and content catalog over HTTP/JSON and manages its PostgreSQL schema.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the default logger: JSON in
// production, text with debug output in development.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
	)
	return cfg, nil
}
