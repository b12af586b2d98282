package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository. The ledger is
// append-only: rows are inserted once and never updated.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Insert appends a ledger entry inside the given transaction.
func (r *TransactionRepo) Insert(ctx context.Context, tx pgx.Tx, txn *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (id, wallet_id, amount, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.WalletID, txn.Amount.Decimal(), string(txn.Type), string(txn.Status), txn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicateTransaction()
		}
		return mapStoreError(fmt.Errorf("insert transaction: %w", err))
	}
	return nil
}

// ListByWallet returns up to limit ledger entries for the wallet, newest
// first. A limit <= 0 falls back to the default.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = ports.DefaultHistoryLimit
	}

	query := `SELECT id, wallet_id, amount, type, status, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, mapStoreError(fmt.Errorf("list transactions: %w", err))
	}
	defer rows.Close()

	var txns []domain.WalletTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(fmt.Errorf("iterate transaction rows: %w", err))
	}
	return txns, nil
}

// scanTransaction reconstructs a ledger entry from a row, rejecting rows
// whose enum values or amount violate the domain contract.
func scanTransaction(row pgx.Rows) (*domain.WalletTransaction, error) {
	var (
		txn            domain.WalletTransaction
		amount         decimal.Decimal
		txType, status string
	)
	if err := row.Scan(&txn.ID, &txn.WalletID, &amount, &txType, &status, &txn.CreatedAt); err != nil {
		return nil, mapStoreError(fmt.Errorf("scan transaction row: %w", err))
	}

	money, err := domain.NewMoney(amount)
	if err != nil {
		return nil, apperror.ErrCorruptRecord(fmt.Errorf("transaction %s amount: %w", txn.ID, err))
	}
	txn.Amount = money

	if txn.Type, err = domain.ParseTransactionType(txType); err != nil {
		return nil, apperror.ErrCorruptRecord(fmt.Errorf("transaction %s: %w", txn.ID, err))
	}
	if txn.Status, err = domain.ParseTransactionStatus(status); err != nil {
		return nil, apperror.ErrCorruptRecord(fmt.Errorf("transaction %s: %w", txn.ID, err))
	}
	return &txn, nil
}
