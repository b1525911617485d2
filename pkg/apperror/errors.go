package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so errors.Is works across independently
// constructed instances of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Value-object construction (VAL) ----

func ErrInvalidAmount() *AppError {
	return New("VAL_001", "Amount of money cannot be negative", http.StatusBadRequest)
}

func ErrInvalidCurrency() *AppError {
	return New("VAL_002", "Invalid currency", http.StatusBadRequest)
}

func ErrInvalidID(entity string) *AppError {
	return New("VAL_003", fmt.Sprintf("Invalid %s id", entity), http.StatusBadRequest)
}

// ---- Wallet construction & business rules (WAL) ----

func ErrNegativeInitialBalance() *AppError {
	return New("WAL_001", "Initial balance cannot be negative", http.StatusBadRequest)
}

func ErrMissingTeenRules() *AppError {
	return New("WAL_002", "Teen wallet requires teen rules", http.StatusBadRequest)
}

func ErrNonPositiveLimit() *AppError {
	return New("WAL_003", "Transaction limit must be positive", http.StatusBadRequest)
}

func ErrNonPositiveAmount() *AppError {
	return New("WAL_004", "Amount must be positive", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New("WAL_005", "Insufficient funds", http.StatusPaymentRequired)
}

func ErrCurrencyMismatch() *AppError {
	return New("WAL_006", "Currency mismatch between wallets", http.StatusUnprocessableEntity)
}

func ErrTransactionLimitExceeded() *AppError {
	return New("WAL_007", "Amount exceeds per transaction limit", http.StatusUnprocessableEntity)
}

func ErrTargetNotWhitelisted() *AppError {
	return New("WAL_008", "Target wallet is not whitelisted", http.StatusForbidden)
}

func ErrPayNotAllowedForStandard() *AppError {
	return New("WAL_009", "Pay operation only available for teen wallets", http.StatusForbidden)
}

func ErrNotATeenWallet() *AppError {
	return New("WAL_010", "Only teen wallets can be upgraded", http.StatusConflict)
}

// ---- Lookups & orchestration preconditions (LKP) ----

func ErrWalletNotFound() *AppError {
	return New("LKP_001", "Wallet not found", http.StatusNotFound)
}

func ErrSourceWalletNotFound() *AppError {
	return New("LKP_002", "Source wallet not found", http.StatusNotFound)
}

func ErrDestinationWalletNotFound() *AppError {
	return New("LKP_003", "Destination wallet not found", http.StatusNotFound)
}

func ErrUserNotFound() *AppError {
	return New("LKP_004", "User not found", http.StatusNotFound)
}

func ErrParentWalletNotFound() *AppError {
	return New("LKP_005", "Parent wallet does not exist", http.StatusNotFound)
}

func ErrParentMustBeStandard() *AppError {
	return New("LKP_006", "Parent wallet must be a standard wallet", http.StatusUnprocessableEntity)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid email or password", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already in use", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}
