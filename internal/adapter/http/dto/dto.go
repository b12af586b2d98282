package dto

import "time"

// CreateWalletRequest is the payload for POST /wallets.
type CreateWalletRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`
}

// FundRequest is the payload for POST /wallets/:id/fund. Amount is a decimal
// string with at most four fractional digits.
type FundRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransferRequest is the payload for POST /transfers.
type TransferRequest struct {
	FromWalletID string `json:"from_wallet_id" binding:"required,uuid"`
	ToWalletID   string `json:"to_wallet_id" binding:"required,uuid"`
	Amount       string `json:"amount" binding:"required"`
}

// WalletResponse is the wire form of a wallet.
type WalletResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse is the wire form of a ledger entry.
type TransactionResponse struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"wallet_id"`
	Amount    string    `json:"amount"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FundResponse pairs the updated wallet with its ledger entry.
type FundResponse struct {
	Wallet      WalletResponse      `json:"wallet"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransferResponse carries both updated wallets and their ledger entry pair.
type TransferResponse struct {
	Source         WalletResponse      `json:"source"`
	Destination    WalletResponse      `json:"destination"`
	OutTransaction TransactionResponse `json:"out_transaction"`
	InTransaction  TransactionResponse `json:"in_transaction"`
}
