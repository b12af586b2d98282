package postgres

import (
	"context"
	"errors"

	"wallet-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the adapters care about.
const (
	sqlstateUniqueViolation  = "23505"
	sqlstateLockNotAvailable = "55P03"
	sqlstateQueryCanceled    = "57014"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateUniqueViolation
}

// mapStoreError translates driver-level failures into the engine's error
// taxonomy. Lock-wait and statement timeouts become TransactionTimeout;
// everything else is an opaque database error.
func mapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateLockNotAvailable, sqlstateQueryCanceled:
			return apperror.ErrTransactionTimeout(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrTransactionTimeout(err)
	}
	return apperror.ErrDatabaseError(err)
}
