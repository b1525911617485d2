package domain

import "teen-wallet-service/pkg/apperror"

// Money is an immutable amount in minor currency units (cents).
// A negative amount is unrepresentable: construction rejects it and
// Subtract fails instead of underflowing.
type Money struct {
	cents int64
}

// NewMoney creates a Money value. Fails for negative amounts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, apperror.ErrInvalidAmount()
	}
	return Money{cents: cents}, nil
}

// Value returns the amount in minor units.
func (m Money) Value() int64 {
	return m.cents
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns the difference. Fails with InsufficientFunds when
// other is greater than m.
func (m Money) Subtract(other Money) (Money, error) {
	if other.GreaterThan(m) {
		return Money{}, apperror.ErrInsufficientFunds()
	}
	return Money{cents: m.cents - other.cents}, nil
}

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// Equals reports value equality.
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

// IsZero reports whether the amount is zero. Guard clauses use it to
// reject non-positive operation amounts (negatives cannot be constructed).
func (m Money) IsZero() bool {
	return m.cents == 0
}
