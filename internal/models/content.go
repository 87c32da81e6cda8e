// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Content is a media item (show, movie, ...) belonging to exactly one
// category, referenced by the category's name.
type Content struct {
	ID               uuid.UUID `json:"id"`
	CategoryName     string    `json:"category_name"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Image            *string   `json:"image"`
	Duration         *int      `json:"duration"` // minutes
	NumberOfEpisodes *int      `json:"number_of_episodes"`
	Genre            *string   `json:"genre"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
