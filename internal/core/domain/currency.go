package domain

import "teen-wallet-service/pkg/apperror"

// Currency is a code drawn from a fixed, closed set. Values outside the
// set are unconstructible; equality is by code.
type Currency struct {
	code string
}

var (
	USD = Currency{code: "USD"}
	ARS = Currency{code: "ARS"}
)

// ParseCurrency maps a code string to its canonical Currency.
func ParseCurrency(code string) (Currency, error) {
	switch code {
	case "USD":
		return USD, nil
	case "ARS":
		return ARS, nil
	default:
		return Currency{}, apperror.ErrInvalidCurrency()
	}
}

// Code returns the currency code.
func (c Currency) Code() string {
	return c.code
}

// Equals reports code equality.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}
