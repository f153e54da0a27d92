package postgres

import (
	"errors"

	"go-jobboard-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     pq.ErrorCode = "23505"
	pgForeignKeyViolation pq.ErrorCode = "23503"
	pgInvalidText         pq.ErrorCode = "22P02" // e.g. a malformed UUID in a path parameter
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pgCode returns the SQLSTATE of a server error, or "" for anything else.
func pgCode(err error) pq.ErrorCode {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pq.ErrorCode(pgErr.Code)
	}
	return ""
}

// notFound maps "no row" and unparsable ids to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgInvalidText {
		return domain.ErrNotFound
	}
	return err
}
