package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. It holds no mutable
// state of its own; all coordination between concurrent callers happens in
// the store's row locks and the conditional version update.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	publisher  ports.AuditPublisher // nil = audit pipeline disabled
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	publisher ports.AuditPublisher,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		publisher:  publisher,
		log:        log,
	}
}

// commitTx commits the unit of work. Lock-wait and statement timeouts
// surfacing at commit are translated to TransactionTimeout, the same way the
// store adapters treat them mid-transaction; anything else is opaque.
func commitTx(ctx context.Context, dbTx pgx.Tx) error {
	err := dbTx.Commit(ctx)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "57014":
			return apperror.ErrTransactionTimeout(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrTransactionTimeout(err)
	}
	return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
}

// CreateWallet creates and persists an empty wallet for the owner.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := domain.NewWallet(ownerID)
	if err != nil {
		return nil, apperror.ErrInvalidOwner(err)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.walletRepo.Insert(ctx, dbTx, wallet); err != nil {
		return nil, err
	}
	if err := commitTx(ctx, dbTx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("owner_id", wallet.OwnerID).
		Msg("wallet created")

	return wallet, nil
}

// FundWallet credits a wallet and appends the matching FUND ledger entry in
// one atomic unit of work.
//
// The initial read is unlocked: the conditional version update is itself the
// concurrency guard. A racing writer makes the update match zero rows and
// the whole unit of work aborts with OptimisticLockConflict; retrying is the
// caller's decision.
func (s *LedgerServiceImpl) FundWallet(ctx context.Context, walletID uuid.UUID, amount domain.Money) (*ports.FundResult, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Errorf("fund amount must be positive, got %s", amount))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if err := wallet.Fund(amount); err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	txn, err := domain.NewWalletTransaction(wallet.ID, amount, domain.TransactionTypeFund, domain.TransactionStatusCompleted)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	if err := s.walletRepo.UpdateConditional(ctx, dbTx, wallet); err != nil {
		return nil, err
	}
	if err := s.txRepo.Insert(ctx, dbTx, txn); err != nil {
		return nil, err
	}
	if err := commitTx(ctx, dbTx); err != nil {
		return nil, err
	}

	s.notifyAudit(ctx, txn)

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("amount", amount.String()).
		Int64("version", wallet.Version).
		Msg("wallet funded")

	return &ports.FundResult{Wallet: wallet, Transaction: txn}, nil
}

// Transfer moves an amount between two wallets atomically: both balance
// changes and both ledger entries commit together or not at all.
//
// Both rows are locked in lexicographic order of their canonical id strings.
// Any two transfers touching the same pair, in either direction, acquire the
// locks in the same global order, so no cycle of waiters can form.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) (*ports.TransferResult, error) {
	if fromID == toID {
		return nil, apperror.ErrSelfTransfer()
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount(fmt.Errorf("transfer amount must be positive, got %s", amount))
	}

	firstID, secondID := fromID, toID
	if strings.Compare(fromID.String(), toID.String()) > 0 {
		firstID, secondID = toID, fromID
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	first, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, firstID)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	second, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, secondID)
	if err != nil {
		return nil, err
	}
	if second == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	// The lock-order sort may have swapped the pair; map back to the
	// caller's source/destination.
	source, destination := first, second
	if first.ID != fromID {
		source, destination = second, first
	}

	if !source.CanDebit(amount) {
		return nil, apperror.ErrInsufficientFunds(source.Balance.String(), amount.String())
	}

	if err := source.Debit(amount); err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}
	if err := destination.Fund(amount); err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	outTxn, err := domain.NewWalletTransaction(source.ID, amount, domain.TransactionTypeTransferOut, domain.TransactionStatusCompleted)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}
	inTxn, err := domain.NewWalletTransaction(destination.ID, amount, domain.TransactionTypeTransferIn, domain.TransactionStatusCompleted)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	if err := s.walletRepo.UpdateConditional(ctx, dbTx, source); err != nil {
		return nil, err
	}
	if err := s.walletRepo.UpdateConditional(ctx, dbTx, destination); err != nil {
		return nil, err
	}
	if err := s.txRepo.Insert(ctx, dbTx, outTxn); err != nil {
		return nil, err
	}
	if err := s.txRepo.Insert(ctx, dbTx, inTxn); err != nil {
		return nil, err
	}

	if err := commitTx(ctx, dbTx); err != nil {
		return nil, err
	}

	s.notifyAudit(ctx, outTxn)
	s.notifyAudit(ctx, inTxn)

	s.log.Info().
		Str("from", source.ID.String()).
		Str("to", destination.ID.String()).
		Str("amount", amount.String()).
		Msg("transfer completed")

	return &ports.TransferResult{
		Source:         source,
		Destination:    destination,
		OutTransaction: outTxn,
		InTransaction:  inTxn,
	}, nil
}

// GetWallet returns a wallet by id.
func (s *LedgerServiceImpl) GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// GetUserWallets returns every wallet held by the owner.
func (s *LedgerServiceImpl) GetUserWallets(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperror.ErrInvalidOwner(fmt.Errorf("owner id must not be empty"))
	}
	return s.walletRepo.ListByOwner(ctx, ownerID)
}

// GetWalletHistory returns up to limit ledger entries, newest first.
func (s *LedgerServiceImpl) GetWalletHistory(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return s.txRepo.ListByWallet(ctx, walletID, limit)
}

// notifyAudit hands a committed ledger entry to the audit pipeline.
// Best-effort: the commit already happened, so a publish failure is logged
// and the operation still succeeds. The stream consumer reconciles gaps.
func (s *LedgerServiceImpl) notifyAudit(ctx context.Context, txn *domain.WalletTransaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, txn); err != nil {
		s.log.Warn().Err(err).
			Str("transaction_id", txn.ID.String()).
			Msg("failed to publish transaction to audit stream")
	}
}
