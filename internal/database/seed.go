// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategories are created in an empty development database so the
// frontend has something to render.
var seedCategories = []string{"Anime", "Movies", "Series"}

// Seed populates the database with initial development data.
// It does nothing once any category exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, name := range seedCategories {
		_, err := db.Exec(`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", name, err)
		}
	}

	slog.Info("database seeded with default categories", "count", len(seedCategories))
	return nil
}
