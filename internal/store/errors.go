// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint violations surfaced by the stores. The database is the final
// arbiter of name uniqueness and category references, so handlers must
// treat these like failed validation even after their own checks passed.
var (
	ErrDuplicateName   = errors.New("name already taken")
	ErrUnknownCategory = errors.New("category does not exist")
)

// PostgreSQL SQLSTATE codes we map.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// classify converts driver constraint errors into the store sentinels.
// Any other error is returned unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return ErrDuplicateName
	case foreignKeyViolation:
		return ErrUnknownCategory
	}
	return err
}
