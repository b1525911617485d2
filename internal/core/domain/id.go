package domain

import (
	"teen-wallet-service/pkg/apperror"

	"github.com/google/uuid"
)

// WalletID is the UUID-backed identity of a wallet.
type WalletID struct {
	value uuid.UUID
}

// ParseWalletID validates a UUID string and wraps it as a WalletID.
func ParseWalletID(s string) (WalletID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WalletID{}, apperror.ErrInvalidID("wallet")
	}
	return WalletID{value: id}, nil
}

// NewWalletID generates a fresh random WalletID.
func NewWalletID() WalletID {
	return WalletID{value: uuid.New()}
}

func (id WalletID) String() string {
	return id.value.String()
}

// IsZero reports whether the id is the zero value (never a valid identity).
func (id WalletID) IsZero() bool {
	return id.value == uuid.Nil
}

// UserID is the UUID-backed identity of a wallet owner.
type UserID struct {
	value uuid.UUID
}

// ParseUserID validates a UUID string and wraps it as a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, apperror.ErrInvalidID("user")
	}
	return UserID{value: id}, nil
}

// NewUserID generates a fresh random UserID.
func NewUserID() UserID {
	return UserID{value: uuid.New()}
}

func (id UserID) String() string {
	return id.value.String()
}

// IsZero reports whether the id is the zero value.
func (id UserID) IsZero() bool {
	return id.value == uuid.Nil
}
