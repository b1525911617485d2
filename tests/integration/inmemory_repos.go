package integration

import (
	"context"
	"fmt"
	"sync"

	"teen-wallet-service/internal/core/domain"
	"teen-wallet-service/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return fmt.Errorf("email already exists")
		}
	}
	r.users[u.ID().String()] = u
	return nil
}

func (r *inMemoryUserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id.String()]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *inMemoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

// --- In-Memory Wallet Repo ---

// inMemoryWalletRepo stores wallet snapshots so that mutations on a loaded
// aggregate never leak into the store before SaveTx, mirroring row-based
// persistence.
type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]domain.WalletSnapshot
	owners  map[string]domain.UserID
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets: make(map[string]domain.WalletSnapshot),
		owners:  make(map[string]domain.UserID),
	}
}

func (r *inMemoryWalletRepo) Save(ctx context.Context, w *domain.Wallet, ownerID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := w.Snapshot()
	r.wallets[s.ID] = s
	r.owners[s.ID] = ownerID
	return nil
}

func (r *inMemoryWalletRepo) SaveTx(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := w.Snapshot()
	if _, ok := r.wallets[s.ID]; !ok {
		return fmt.Errorf("wallet not found")
	}
	r.wallets[s.ID] = s
	return nil
}

func (r *inMemoryWalletRepo) FindByID(ctx context.Context, id domain.WalletID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.wallets[id.String()]
	if !ok {
		return nil, nil
	}
	return domain.WalletFromSnapshot(s)
}

func (r *inMemoryWalletRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id domain.WalletID) (*domain.Wallet, error) {
	return r.FindByID(ctx, id)
}

func (r *inMemoryWalletRepo) FindOwnerID(ctx context.Context, id domain.WalletID) (domain.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id.String()]
	if !ok {
		return domain.UserID{}, fmt.Errorf("wallet owner not found")
	}
	return owner, nil
}

func (r *inMemoryWalletRepo) ListTeenWalletOwners(ctx context.Context) ([]ports.TeenWalletOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ports.TeenWalletOwner
	for id, s := range r.wallets {
		if s.Type != string(domain.WalletTypeTeen) {
			continue
		}
		walletID, err := domain.ParseWalletID(id)
		if err != nil {
			return nil, err
		}
		result = append(result, ports.TeenWalletOwner{WalletID: walletID, OwnerID: r.owners[id]})
	}
	return result, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions behind a single mutex so that
// concurrent operations observe the same isolation the row locks provide.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: &t.mu}, nil
}

// serialTx holds the transactor mutex until Commit or Rollback, whichever
// comes first. Rollback after Commit is a no-op, matching pgx semantics.
type serialTx struct {
	release *sync.Mutex
	once    sync.Once
}

func (t *serialTx) done() {
	t.once.Do(t.release.Unlock)
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
