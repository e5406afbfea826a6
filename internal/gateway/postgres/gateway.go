// Package postgres implements the remote data gateway over PostgreSQL
// using pgx. All SQL for the exam, student, and attempt record kinds lives
// here.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway is the pgx-backed implementation of gateway.Gateway.
type Gateway struct {
	pool *pgxpool.Pool
}

// New creates a Gateway over the given connection pool.
func New(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}
