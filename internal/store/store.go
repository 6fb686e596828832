// Package store is the pgx-backed repository for meeting requests and
// admin principals. One method per operation, hand-written SQL.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
