// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"catalogapi/internal/models"
)

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, category_name, name, description, image,
	duration, number_of_episodes, genre, created_at, updated_at`

// scanContent scans a content row from the result set.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.CategoryName, &c.Name, &c.Description, &c.Image,
		&c.Duration, &c.NumberOfEpisodes, &c.Genre, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// list runs a content query and collects every row.
func (s *ContentStore) list(ctx context.Context, query string, args ...any) ([]models.Content, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all content items, oldest first.
func (s *ContentStore) List(ctx context.Context) ([]models.Content, error) {
	items, err := s.list(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return items, nil
}

// ListByCategory returns the content items whose category_name equals
// categoryName exactly.
func (s *ContentStore) ListByCategory(ctx context.Context, categoryName string) ([]models.Content, error) {
	items, err := s.list(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE category_name = $1
		ORDER BY created_at, name`, categoryName)
	if err != nil {
		return nil, fmt.Errorf("list contents by category: %w", err)
	}
	return items, nil
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// NameTaken reports whether another content item already uses name. The
// item identified by exclude, if any, is ignored.
func (s *ContentStore) NameTaken(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM contents
			WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2)
		)`, name, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("content name taken: %w", err)
	}
	return taken, nil
}

// Create inserts a new content item and returns it with the generated ID.
func (s *ContentStore) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO contents (category_name, name, description, image,
		                      duration, number_of_episodes, genre)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contentColumns,
		c.CategoryName, c.Name, c.Description, c.Image,
		c.Duration, c.NumberOfEpisodes, c.Genre,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", classify(err))
	}
	return result, nil
}

// Update overwrites every mutable field of an existing content item and
// returns the stored row. Returns nil if the item does not exist.
func (s *ContentStore) Update(ctx context.Context, c *models.Content) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE contents SET
			category_name = $1, name = $2, description = $3, image = $4,
			duration = $5, number_of_episodes = $6, genre = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING `+contentColumns,
		c.CategoryName, c.Name, c.Description, c.Image,
		c.Duration, c.NumberOfEpisodes, c.Genre, c.ID,
	)
	result, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update content: %w", classify(err))
	}
	return result, nil
}

// Delete removes a content item by ID and returns the deleted row, or nil
// if it did not exist.
func (s *ContentStore) Delete(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `DELETE FROM contents WHERE id = $1 RETURNING `+contentColumns, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete content: %w", err)
	}
	return c, nil
}
