package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, owner_id, balance, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var (
		w       domain.Wallet
		balance decimal.Decimal
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &balance, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	money, err := domain.NewMoney(balance)
	if err != nil {
		return nil, apperror.ErrCorruptRecord(fmt.Errorf("wallet %s balance: %w", w.ID, err))
	}
	w.Balance = money
	return &w, nil
}

// Insert persists a freshly created wallet inside the given transaction.
func (r *WalletRepo) Insert(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.OwnerID, w.Balance.Decimal(), w.Version, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicateWallet()
		}
		return mapStoreError(fmt.Errorf("insert wallet: %w", err))
	}
	return nil
}

// GetByID fetches a wallet by id without locking. Returns nil, nil when absent.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, mapStoreError(fmt.Errorf("get wallet by id: %w", err))
	}
	return w, nil
}

// GetByIDForUpdate fetches a wallet under an exclusive row lock. The lock is
// held until tx commits or rolls back. Returns nil, nil when absent.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, mapStoreError(fmt.Errorf("get wallet for update: %w", err))
	}
	return w, nil
}

// ListByOwner returns every wallet held by the owner, oldest first.
func (r *WalletRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapStoreError(fmt.Errorf("list wallets by owner: %w", err))
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, mapStoreError(fmt.Errorf("scan wallet row: %w", err))
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(fmt.Errorf("iterate wallet rows: %w", err))
	}
	return wallets, nil
}

// UpdateConditional persists a mutated wallet, conditioned on the row still
// holding the version the aggregate was loaded at (wallet.Version - 1).
//
// Zero rows affected is ambiguous between a missing wallet and a stale
// version; the disambiguating re-read runs on the same transaction so the
// answer comes from the same isolation boundary as the attempted write.
func (r *WalletRepo) UpdateConditional(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets SET balance = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5`

	tag, err := tx.Exec(ctx, query,
		w.Balance.Decimal(), w.Version, w.UpdatedAt, w.ID, w.Version-1,
	)
	if err != nil {
		return mapStoreError(fmt.Errorf("update wallet: %w", err))
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current int64
	err = tx.QueryRow(ctx, `SELECT version FROM wallets WHERE id = $1`, w.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrWalletNotFound()
		}
		return mapStoreError(fmt.Errorf("re-read wallet version: %w", err))
	}
	return apperror.ErrOptimisticLockConflict()
}
