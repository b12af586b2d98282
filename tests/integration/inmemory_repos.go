package integration

import (
	"context"
	"sync"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is a shared in-memory stand-in for the wallets and
// wallet_transactions tables. It mirrors the two mechanisms the service
// depends on: per-wallet row locks held until commit or rollback, and the
// conditional version update. Uncommitted writes are staged on the memTx and
// only become visible to other transactions at Commit.
type memStore struct {
	mu       sync.Mutex
	wallets  map[uuid.UUID]domain.Wallet
	ledger   []domain.WalletTransaction
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		wallets:  make(map[uuid.UUID]domain.Wallet),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memStore) rowLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

// memTx implements pgx.Tx over the memStore. Wallet and ledger writes are
// staged here and applied atomically on Commit. Row locks acquired through
// this tx are released exactly once, on Commit or Rollback.
type memTx struct {
	store        *memStore
	walletWrites map[uuid.UUID]domain.Wallet
	txnWrites    []domain.WalletTransaction
	held         []uuid.UUID
	heldSet      map[uuid.UUID]bool
	done         bool
}

func newMemTx(store *memStore) *memTx {
	return &memTx{
		store:        store,
		walletWrites: make(map[uuid.UUID]domain.Wallet),
		heldSet:      make(map[uuid.UUID]bool),
	}
}

// lockRow blocks until this tx holds the wallet's row lock. Re-locking a row
// the tx already holds is a no-op, same as FOR UPDATE on an already-locked row.
func (t *memTx) lockRow(id uuid.UUID) {
	if t.heldSet[id] {
		return
	}
	t.store.rowLock(id).Lock()
	t.heldSet[id] = true
	t.held = append(t.held, id)
}

func (t *memTx) releaseLocks() {
	for _, id := range t.held {
		t.store.rowLock(id).Unlock()
	}
	t.held = nil
	t.heldSet = make(map[uuid.UUID]bool)
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.store.mu.Lock()
	for id, w := range t.walletWrites {
		t.store.wallets[id] = w
	}
	t.store.ledger = append(t.store.ledger, t.txnWrites...)
	t.store.mu.Unlock()
	t.done = true
	t.releaseLocks()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.releaseLocks()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                               { return nil }

// --- Transactor ---

type memTransactor struct {
	store *memStore
}

func newMemTransactor(store *memStore) *memTransactor {
	return &memTransactor{store: store}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return newMemTx(t.store), nil
}

func asMemTx(tx pgx.Tx) *memTx {
	return tx.(*memTx)
}

// --- Wallet Repo ---

type memWalletRepo struct {
	store *memStore
}

func newMemWalletRepo(store *memStore) *memWalletRepo {
	return &memWalletRepo{store: store}
}

func (r *memWalletRepo) Insert(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	mtx := asMemTx(tx)
	r.store.mu.Lock()
	_, exists := r.store.wallets[w.ID]
	r.store.mu.Unlock()
	if exists {
		return apperror.ErrDuplicateWallet()
	}
	if _, staged := mtx.walletWrites[w.ID]; staged {
		return apperror.ErrDuplicateWallet()
	}
	mtx.walletWrites[w.ID] = *w
	return nil
}

func (r *memWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	copied := w
	return &copied, nil
}

func (r *memWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	mtx := asMemTx(tx)
	mtx.lockRow(id)
	if staged, ok := mtx.walletWrites[id]; ok {
		copied := staged
		return &copied, nil
	}
	return r.GetByID(ctx, id)
}

func (r *memWalletRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Wallet
	for _, w := range r.store.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

// UpdateConditional takes the row lock before checking the version, the same
// way a real UPDATE blocks on a concurrent writer's row lock. The staged
// write only lands at Commit, so a concurrent reader never sees it early.
func (r *memWalletRepo) UpdateConditional(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	mtx := asMemTx(tx)
	mtx.lockRow(w.ID)

	current, staged := mtx.walletWrites[w.ID]
	if !staged {
		r.store.mu.Lock()
		var ok bool
		current, ok = r.store.wallets[w.ID]
		r.store.mu.Unlock()
		if !ok {
			return apperror.ErrWalletNotFound()
		}
	}
	if current.Version != w.Version-1 {
		return apperror.ErrOptimisticLockConflict()
	}
	mtx.walletWrites[w.ID] = *w
	return nil
}

// --- Transaction Repo ---

type memTransactionRepo struct {
	store *memStore
}

func newMemTransactionRepo(store *memStore) *memTransactionRepo {
	return &memTransactionRepo{store: store}
}

func (r *memTransactionRepo) Insert(ctx context.Context, tx pgx.Tx, txn *domain.WalletTransaction) error {
	mtx := asMemTx(tx)
	mtx.txnWrites = append(mtx.txnWrites, *txn)
	return nil
}

// ListByWallet walks the committed ledger newest-first; the append order
// stands in for created_at DESC so entries created in the same instant stay
// stably ordered.
func (r *memTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = ports.DefaultHistoryLimit
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.WalletTransaction
	for i := len(r.store.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.ledger[i].WalletID == walletID {
			out = append(out, r.store.ledger[i])
		}
	}
	return out, nil
}
