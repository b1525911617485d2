package postgres

import (
	"context"
	"errors"
	"fmt"

	"teen-wallet-service/internal/core/domain"
	"teen-wallet-service/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const walletColumns = `id::text, currency, balance, type, parent_wallet_id::text, per_transaction_limit, whitelisted_wallet_ids`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Save upserts the wallet's full state, associating it with its owner on
// first insert.
func (r *WalletRepo) Save(ctx context.Context, w *domain.Wallet, ownerID domain.UserID) error {
	s := w.Snapshot()
	query := `INSERT INTO wallets (id, user_id, currency, balance, type, parent_wallet_id, per_transaction_limit, whitelisted_wallet_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			balance = EXCLUDED.balance,
			type = EXCLUDED.type,
			parent_wallet_id = EXCLUDED.parent_wallet_id,
			per_transaction_limit = EXCLUDED.per_transaction_limit,
			whitelisted_wallet_ids = EXCLUDED.whitelisted_wallet_ids,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		s.ID, ownerID.String(), s.Currency, s.Balance, s.Type,
		s.ParentWalletID, s.PerTransactionLimit, s.WhitelistedWalletIDs,
	)
	if err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}

// SaveTx updates the wallet's mutable state within a transaction. The
// type columns are included so an auto-upgrade lands in the same write.
func (r *WalletRepo) SaveTx(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	s := w.Snapshot()
	query := `UPDATE wallets SET
			balance = $1,
			type = $2,
			parent_wallet_id = $3,
			per_transaction_limit = $4,
			whitelisted_wallet_ids = $5,
			updated_at = NOW()
		WHERE id = $6`

	tag, err := tx.Exec(ctx, query,
		s.Balance, s.Type, s.ParentWalletID, s.PerTransactionLimit, s.WhitelistedWalletIDs, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", s.ID)
	}
	return nil
}

// FindByID fetches a wallet by id (without locking).
func (r *WalletRepo) FindByID(ctx context.Context, id domain.WalletID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id.String()))
}

// FindByIDForUpdate fetches a wallet by id with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id domain.WalletID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return r.scanWallet(tx.QueryRow(ctx, query, id.String()))
}

// FindOwnerID returns the owning user of a wallet.
func (r *WalletRepo) FindOwnerID(ctx context.Context, id domain.WalletID) (domain.UserID, error) {
	query := `SELECT user_id::text FROM wallets WHERE id = $1`

	var raw string
	if err := r.pool.QueryRow(ctx, query, id.String()).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserID{}, fmt.Errorf("wallet owner not found: %s", id.String())
		}
		return domain.UserID{}, fmt.Errorf("get wallet owner: %w", err)
	}
	return domain.ParseUserID(raw)
}

// ListTeenWalletOwners returns every teen wallet paired with its owner.
func (r *WalletRepo) ListTeenWalletOwners(ctx context.Context) ([]ports.TeenWalletOwner, error) {
	query := `SELECT id::text, user_id::text FROM wallets WHERE type = $1`

	rows, err := r.pool.Query(ctx, query, string(domain.WalletTypeTeen))
	if err != nil {
		return nil, fmt.Errorf("list teen wallets: %w", err)
	}
	defer rows.Close()

	var refs []ports.TeenWalletOwner
	for rows.Next() {
		var walletRaw, ownerRaw string
		if err := rows.Scan(&walletRaw, &ownerRaw); err != nil {
			return nil, fmt.Errorf("scan teen wallet row: %w", err)
		}
		walletID, err := domain.ParseWalletID(walletRaw)
		if err != nil {
			return nil, err
		}
		ownerID, err := domain.ParseUserID(ownerRaw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ports.TeenWalletOwner{WalletID: walletID, OwnerID: ownerID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teen wallets: %w", err)
	}
	return refs, nil
}

// scanWallet rehydrates a wallet from a row, mapping pgx.ErrNoRows to a
// nil wallet.
func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var s domain.WalletSnapshot
	err := row.Scan(
		&s.ID, &s.Currency, &s.Balance, &s.Type,
		&s.ParentWalletID, &s.PerTransactionLimit, &s.WhitelistedWalletIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return domain.WalletFromSnapshot(s)
}
