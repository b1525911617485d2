package ports

import (
	"context"
	"time"

	"teen-wallet-service/internal/core/domain"
)

// WalletService defines the core wallet business logic.
type WalletService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id domain.WalletID) (*domain.Wallet, error)
	Deposit(ctx context.Context, req DepositRequest) (*domain.Wallet, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Wallet, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	Pay(ctx context.Context, req PayRequest) (*domain.Wallet, error)
	// UpgradeIfEligible upgrades a teen wallet to standard when the owner
	// has come of age. Returns the (possibly unchanged) wallet.
	UpgradeIfEligible(ctx context.Context, walletID domain.WalletID) (*domain.Wallet, error)
}

// CreateWalletRequest holds validated input for wallet creation.
type CreateWalletRequest struct {
	OwnerID              domain.UserID
	Currency             string
	InitialBalance       int64
	Type                 string
	ParentWalletID       *string
	PerTransactionLimit  *int64
	WhitelistedWalletIDs []string
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	WalletID    domain.WalletID
	Amount      int64
	ReferenceID string // optional client-supplied idempotency reference
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	WalletID    domain.WalletID
	Amount      int64
	ReferenceID string
}

// TransferRequest holds validated input for a wallet-to-wallet transfer.
type TransferRequest struct {
	SourceWalletID      domain.WalletID
	DestinationWalletID domain.WalletID
	Amount              int64
	ReferenceID         string
}

// TransferResult carries both post-transfer wallet states.
type TransferResult struct {
	Source      *domain.Wallet
	Destination *domain.Wallet
}

// PayRequest holds validated input for an external payment.
type PayRequest struct {
	WalletID       domain.WalletID
	Amount         int64
	TargetWalletID *string // optional merchant wallet reference
	ReferenceID    string
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BirthDate time.Time
}

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID domain.UserID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID domain.UserID
}

// IdempotencyCache is the Redis-layer idempotency check for wallet
// operations carrying a client reference id.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
