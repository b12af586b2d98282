package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultHistoryLimit bounds history queries when the caller passes no limit.
const DefaultHistoryLimit = 50

// WalletRepository defines persistence operations for wallet aggregates.
// Methods accepting pgx.Tx run inside an enclosing unit of work; locked
// reads hold their row lock until that unit of work ends.
//
// Insert and UpdateConditional are deliberately separate operations: the
// engine decides which to call per call-site instead of inferring the
// choice from Version == 0.
type WalletRepository interface {
	// Insert persists a freshly created wallet.
	// Fails with DuplicateWallet if the id already exists.
	Insert(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error

	// GetByID is an unlocked point read. Returns nil, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)

	// GetByIDForUpdate reads the wallet under an exclusive row lock.
	// Must be called within a transaction. Returns nil, nil when absent.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)

	// ListByOwner returns every wallet held by the owner.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error)

	// UpdateConditional persists a mutated wallet, conditioned on the row
	// still holding wallet.Version-1. Zero rows affected is disambiguated
	// by a re-read on the same transaction: absent rows fail with
	// WalletNotFound, rows with a different version fail with
	// OptimisticLockConflict.
	UpdateConditional(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
}

// TransactionRepository defines persistence for the append-only ledger.
type TransactionRepository interface {
	// Insert appends a ledger entry.
	// Fails with DuplicateTransaction on identifier collision.
	Insert(ctx context.Context, tx pgx.Tx, txn *domain.WalletTransaction) error

	// ListByWallet returns up to limit entries for the wallet ordered by
	// creation time descending. A limit <= 0 uses DefaultHistoryLimit.
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AuditPublisher receives committed ledger entries, at-least-once.
// Publication happens strictly after commit and is fire-and-forget from the
// engine's perspective.
type AuditPublisher interface {
	Publish(ctx context.Context, txn *domain.WalletTransaction) error
}
