package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerService is the wallet ledger transaction engine. Every mutating
// operation runs inside one atomic unit of work: either the balance change
// and its matching ledger entries all commit, or none do.
type LedgerService interface {
	CreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error)
	FundWallet(ctx context.Context, walletID uuid.UUID, amount domain.Money) (*FundResult, error)
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) (*TransferResult, error)
	GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	GetUserWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error)
	GetWalletHistory(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error)
}

// FundResult is the committed outcome of a fund operation.
type FundResult struct {
	Wallet      *domain.Wallet
	Transaction *domain.WalletTransaction
}

// TransferResult is the committed outcome of a transfer: both updated
// wallets and the ledger entry pair recorded for them.
type TransferResult struct {
	Source         *domain.Wallet
	Destination    *domain.Wallet
	OutTransaction *domain.WalletTransaction
	InTransaction  *domain.WalletTransaction
}
