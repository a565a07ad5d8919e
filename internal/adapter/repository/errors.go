package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eslsoft/torii/internal/entity"
)

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func translateProgressError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return entity.ErrConflict
		case pgForeignKeyViolation:
			return entity.ErrUnitNotFound
		case pgCheckViolation:
			return entity.ErrInvalidUnitRef
		}
	}
	return err
}
