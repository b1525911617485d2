package ports

import (
	"context"

	"teen-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	// Save inserts the wallet, associating it with its owner.
	Save(ctx context.Context, wallet *domain.Wallet, ownerID domain.UserID) error
	// SaveTx updates the wallet's mutable state inside a transaction.
	SaveTx(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	FindByID(ctx context.Context, id domain.WalletID) (*domain.Wallet, error)
	// FindByIDForUpdate loads the wallet with a row lock held until commit.
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id domain.WalletID) (*domain.Wallet, error)
	// FindOwnerID returns the owner of a wallet.
	FindOwnerID(ctx context.Context, id domain.WalletID) (domain.UserID, error)
	// ListTeenWalletOwners returns every teen wallet with its owner, for
	// the upgrade sweep.
	ListTeenWalletOwners(ctx context.Context) ([]TeenWalletOwner, error)
}

// TeenWalletOwner pairs a teen wallet with its owning user.
type TeenWalletOwner struct {
	WalletID domain.WalletID
	OwnerID  domain.UserID
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
