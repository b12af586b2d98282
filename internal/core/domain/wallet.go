package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Wallet is the aggregate root for a single balance. Version is an
// optimistic-locking counter: 0 means the aggregate has never been
// persisted, and every persisted mutation bumps it by exactly one.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Balance   Money     `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet creates a fresh, never-persisted wallet with a zero balance.
func NewWallet(ownerID string) (*Wallet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id must not be empty")
	}
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Fund credits the wallet. The amount must be strictly positive. It fails
// without mutating when the credit would overflow the balance.
func (w *Wallet) Fund(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("fund amount must be positive, got %s", amount)
	}
	newBalance, err := w.Balance.Add(amount)
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.bump()
	return nil
}

// CanDebit reports whether the balance covers the given amount.
// Pure predicate; callers use it to fail cleanly before mutating.
func (w *Wallet) CanDebit(amount Money) bool {
	return !w.Balance.LessThan(amount)
}

// Debit removes the amount from the balance. It fails without mutating
// when the balance is insufficient.
func (w *Wallet) Debit(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive, got %s", amount)
	}
	newBalance, err := w.Balance.Sub(amount)
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.bump()
	return nil
}

func (w *Wallet) bump() {
	w.Version++
	w.UpdatedAt = time.Now().UTC()
}
