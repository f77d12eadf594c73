package repositories

import (
	"errors"
	"fmt"

	apperrors "github.com/dcodingdev/gearguard/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

func querierFor(pool *pgxpool.Pool, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return pool
}

// wrapErr turns driver errors into domain errors: no rows becomes ErrNotFound,
// unique violations become ErrAlreadyExists, everything else a StorageError.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperrors.ErrAlreadyExists)
	}
	return apperrors.NewStorageError(op, err)
}

// expectAffected returns ErrNotFound when an update or delete touched no row.
func expectAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
