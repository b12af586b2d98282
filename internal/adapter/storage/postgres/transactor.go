package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out database transactions from the pool so the service
// layer can group balance updates and ledger inserts into one atomic unit
// of work without knowing about pgx connection management.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction. The caller owns it: Commit on success,
// Rollback otherwise (a rollback after commit is a harmless no-op).
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
