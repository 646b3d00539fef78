package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Queryable is the subset of *pgxpool.Pool the Postgres repositories read and write through
type Queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
