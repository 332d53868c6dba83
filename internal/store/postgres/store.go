// Package postgres implements the repositories on top of pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	pgdb "angopay/internal/platform/db"
)

const uniqueViolation = "23505"

type Store struct {
	pool pgdb.Queryer
}

func New(pool pgdb.Queryer) *Store {
	return &Store{pool: pool}
}

func (s *Store) exec(ctx context.Context) pgdb.Queryer {
	return pgdb.QueryerFromContext(ctx, s.pool)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}
