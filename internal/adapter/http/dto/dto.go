package dto

import (
	"teen-wallet-service/internal/core/domain"
)

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the response body for a registered user.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	Currency             string   `json:"currency" binding:"required,len=3"`
	InitialBalance       int64    `json:"initial_balance" binding:"gte=0"`
	Type                 string   `json:"type" binding:"required,wallet_type"`
	ParentWalletID       *string  `json:"parent_wallet_id,omitempty" binding:"omitempty,uuid"`
	PerTransactionLimit  *int64   `json:"per_transaction_limit,omitempty" binding:"omitempty,gt=0"`
	WhitelistedWalletIDs []string `json:"whitelisted_wallet_ids,omitempty" binding:"omitempty,dive,uuid"`
}

// DepositRequest is the request body for a deposit.
type DepositRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID string `json:"reference_id,omitempty" binding:"omitempty,max=100,safe_id"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID string `json:"reference_id,omitempty" binding:"omitempty,max=100,safe_id"`
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	DestinationWalletID string `json:"destination_wallet_id" binding:"required,uuid"`
	Amount              int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID         string `json:"reference_id,omitempty" binding:"omitempty,max=100,safe_id"`
}

// PayRequest is the request body for an external payment.
type PayRequest struct {
	Amount         int64   `json:"amount" binding:"required,gt=0"`
	TargetWalletID *string `json:"target_wallet_id,omitempty" binding:"omitempty,uuid"`
	ReferenceID    string  `json:"reference_id,omitempty" binding:"omitempty,max=100,safe_id"`
}

// WalletResponse is the response body for wallet state.
type WalletResponse struct {
	ID                   string   `json:"id"`
	Currency             string   `json:"currency"`
	Balance              int64    `json:"balance"`
	Type                 string   `json:"type"`
	ParentWalletID       *string  `json:"parent_wallet_id,omitempty"`
	PerTransactionLimit  *int64   `json:"per_transaction_limit,omitempty"`
	WhitelistedWalletIDs []string `json:"whitelisted_wallet_ids,omitempty"`
}

// TransferResponse carries both post-transfer wallet states.
type TransferResponse struct {
	Source      WalletResponse `json:"source"`
	Destination WalletResponse `json:"destination"`
}

// NewWalletResponse maps a domain wallet to its API representation.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	s := w.Snapshot()
	return WalletResponse{
		ID:                   s.ID,
		Currency:             s.Currency,
		Balance:              s.Balance,
		Type:                 s.Type,
		ParentWalletID:       s.ParentWalletID,
		PerTransactionLimit:  s.PerTransactionLimit,
		WhitelistedWalletIDs: s.WhitelistedWalletIDs,
	}
}

// NewUserResponse maps a domain user to its API representation.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID().String(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Email:     u.Email(),
		BirthDate: u.BirthDate().Format("2006-01-02"),
	}
}
