package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance-affecting event.
type TransactionType string

const (
	TransactionTypeFund        TransactionType = "FUND"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
)

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// WalletTransaction is an immutable ledger entry describing one balance
// change on a wallet. Entries are created once and never updated.
type WalletTransaction struct {
	ID        uuid.UUID         `json:"id"`
	WalletID  uuid.UUID         `json:"wallet_id"`
	Amount    Money             `json:"amount"`
	Type      TransactionType   `json:"type"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewWalletTransaction creates a ledger entry with a fresh identifier and
// the current timestamp. The amount must be strictly positive.
func NewWalletTransaction(walletID uuid.UUID, amount Money, txType TransactionType, status TransactionStatus) (*WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transaction amount must be positive, got %s", amount)
	}
	if _, err := ParseTransactionType(string(txType)); err != nil {
		return nil, err
	}
	if _, err := ParseTransactionStatus(string(status)); err != nil {
		return nil, err
	}
	return &WalletTransaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Amount:    amount,
		Type:      txType,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ParseTransactionType validates a stored type value. Unknown values are
// rejected rather than silently accepted.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeFund, TransactionTypeTransferIn, TransactionTypeTransferOut:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// ParseTransactionStatus validates a stored status value.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return TransactionStatus(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// IsCompleted returns true when the entry reached its terminal success state.
func (t *WalletTransaction) IsCompleted() bool { return t.Status == TransactionStatusCompleted }

// IsPending returns true while the entry awaits completion.
func (t *WalletTransaction) IsPending() bool { return t.Status == TransactionStatusPending }

// IsFailed returns true when the entry recorded a failed attempt.
func (t *WalletTransaction) IsFailed() bool { return t.Status == TransactionStatusFailed }

// IsCredit returns true for entries that increased the wallet balance.
func (t *WalletTransaction) IsCredit() bool {
	return t.Type == TransactionTypeFund || t.Type == TransactionTypeTransferIn
}

// IsDebit returns true for entries that decreased the wallet balance.
func (t *WalletTransaction) IsDebit() bool {
	return t.Type == TransactionTypeTransferOut
}
