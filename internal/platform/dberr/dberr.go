// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lectern-pub/lectern/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Both driver stacks are covered: the postgres store queries through pgx
// while the sqlite store goes through database/sql.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unknown query errors become Internal Server Errors
	// Real implementation would also check the Postgres SQLSTATE (e.g. 23505 for unique violation)
	return apperr.Internal(err)
}
