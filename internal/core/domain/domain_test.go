package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.Equal(t, "alice", w.OwnerID)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, int64(0), w.Version)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestNewWallet_EmptyOwner(t *testing.T) {
	for _, owner := range []string{"", "   ", "\t"} {
		_, err := NewWallet(owner)
		assert.Error(t, err, "owner %q must be rejected", owner)
	}
}

func TestWallet_Fund(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)

	require.NoError(t, w.Fund(mustMoney(t, "100.0000")))
	assert.Equal(t, "100.0000", w.Balance.String())
	assert.Equal(t, int64(1), w.Version)

	require.NoError(t, w.Fund(mustMoney(t, "0.0001")))
	assert.Equal(t, "100.0001", w.Balance.String())
	assert.Equal(t, int64(2), w.Version)
}

func TestWallet_Fund_RejectsZero(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)

	assert.Error(t, w.Fund(Zero))
	assert.Equal(t, int64(0), w.Version, "failed fund must not bump version")
}

func TestWallet_Fund_RejectsOverflow(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)

	big := mustMoney(t, "900000000000000.0000")
	require.NoError(t, w.Fund(big))

	err = w.Fund(big)
	assert.Error(t, err)
	assert.Equal(t, "900000000000000.0000", w.Balance.String(), "failed fund must leave balance unchanged")
	assert.Equal(t, int64(1), w.Version, "failed fund must not bump version")
	assert.True(t, w.Balance.IsPositive(), "balance must never go negative")
}

func TestWallet_Debit(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)
	require.NoError(t, w.Fund(mustMoney(t, "100.0000")))

	require.NoError(t, w.Debit(mustMoney(t, "30.0000")))
	assert.Equal(t, "70.0000", w.Balance.String())
	assert.Equal(t, int64(2), w.Version)

	// exact drain to zero is allowed
	require.NoError(t, w.Debit(mustMoney(t, "70.0000")))
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, int64(3), w.Version)
}

func TestWallet_Debit_InsufficientFunds(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)
	require.NoError(t, w.Fund(mustMoney(t, "70.0000")))

	err = w.Debit(mustMoney(t, "1000.0000"))
	assert.Error(t, err)
	assert.Equal(t, "70.0000", w.Balance.String(), "failed debit must leave balance unchanged")
	assert.Equal(t, int64(1), w.Version, "failed debit must not bump version")
}

func TestWallet_CanDebit(t *testing.T) {
	w, err := NewWallet("alice")
	require.NoError(t, err)
	require.NoError(t, w.Fund(mustMoney(t, "50.0000")))

	assert.True(t, w.CanDebit(mustMoney(t, "50.0000")))
	assert.True(t, w.CanDebit(mustMoney(t, "10.0000")))
	assert.False(t, w.CanDebit(mustMoney(t, "50.0001")))
	assert.Equal(t, int64(1), w.Version, "CanDebit must not mutate")
}

func TestNewWalletTransaction(t *testing.T) {
	walletID := uuid.New()
	txn, err := NewWalletTransaction(walletID, mustMoney(t, "30.0000"), TransactionTypeFund, TransactionStatusCompleted)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, walletID, txn.WalletID)
	assert.Equal(t, "30.0000", txn.Amount.String())
	assert.False(t, txn.CreatedAt.IsZero())
}

func TestNewWalletTransaction_Rejects(t *testing.T) {
	walletID := uuid.New()

	_, err := NewWalletTransaction(walletID, Zero, TransactionTypeFund, TransactionStatusCompleted)
	assert.Error(t, err, "zero amount")

	_, err = NewWalletTransaction(walletID, mustMoney(t, "1"), TransactionType("REVERSAL"), TransactionStatusCompleted)
	assert.Error(t, err, "unknown type")

	_, err = NewWalletTransaction(walletID, mustMoney(t, "1"), TransactionTypeFund, TransactionStatus("REVERSED"))
	assert.Error(t, err, "unknown status")
}

func TestParseTransactionType(t *testing.T) {
	for _, valid := range []string{"FUND", "TRANSFER_IN", "TRANSFER_OUT"} {
		parsed, err := ParseTransactionType(valid)
		require.NoError(t, err)
		assert.Equal(t, TransactionType(valid), parsed)
	}

	for _, invalid := range []string{"", "fund", "PAYMENT", "TRANSFER"} {
		_, err := ParseTransactionType(invalid)
		assert.Error(t, err, "type %q must be rejected", invalid)
	}
}

func TestParseTransactionStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "COMPLETED", "FAILED"} {
		parsed, err := ParseTransactionStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, TransactionStatus(valid), parsed)
	}

	for _, invalid := range []string{"", "completed", "SUCCESS", "REVERSED"} {
		_, err := ParseTransactionStatus(invalid)
		assert.Error(t, err, "status %q must be rejected", invalid)
	}
}

func TestWalletTransaction_Classification(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		isCredit bool
	}{
		{"fund", TransactionTypeFund, true},
		{"transfer in", TransactionTypeTransferIn, true},
		{"transfer out", TransactionTypeTransferOut, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &WalletTransaction{Type: tt.txType}
			assert.Equal(t, tt.isCredit, txn.IsCredit())
			assert.Equal(t, !tt.isCredit, txn.IsDebit())
		})
	}
}

func TestWalletTransaction_StatusHelpers(t *testing.T) {
	tests := []struct {
		status    TransactionStatus
		completed bool
		pending   bool
		failed    bool
	}{
		{TransactionStatusCompleted, true, false, false},
		{TransactionStatusPending, false, true, false},
		{TransactionStatusFailed, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			txn := &WalletTransaction{Status: tt.status}
			assert.Equal(t, tt.completed, txn.IsCompleted())
			assert.Equal(t, tt.pending, txn.IsPending())
			assert.Equal(t, tt.failed, txn.IsFailed())
		})
	}
}
