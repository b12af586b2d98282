package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by taxonomy. Validation and business-rule failures
// are never retried; concurrency and infrastructure failures may be retried
// by the caller after the unit of work has rolled back.
const (
	CodeInvalidAmount          = "WAL_001"
	CodeInvalidOwner           = "WAL_002"
	CodeSelfTransfer           = "WAL_003"
	CodeInsufficientFunds      = "WAL_004"
	CodeWalletNotFound         = "WAL_005"
	CodeDuplicateWallet        = "WAL_006"
	CodeDuplicateTransaction   = "WAL_007"
	CodeOptimisticLockConflict = "CON_001"
	CodeDatabaseError          = "SYS_001"
	CodeTransactionTimeout     = "SYS_002"
	CodeCorruptRecord          = "DAT_001"
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

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ---- Validation (never retried) ----

func ErrInvalidAmount(err error) *AppError {
	return Wrap(CodeInvalidAmount, "Invalid amount", http.StatusBadRequest, err)
}

func ErrInvalidOwner(err error) *AppError {
	return Wrap(CodeInvalidOwner, "Invalid owner identifier", http.StatusBadRequest, err)
}

func ErrSelfTransfer() *AppError {
	return New(CodeSelfTransfer, "Transfer source and destination must differ", http.StatusBadRequest)
}

// ---- Business rules (never retried) ----

// ErrInsufficientFunds reports a debit the current balance cannot cover.
// Balance and requested amount are part of the message so callers can show
// a precise rejection.
func ErrInsufficientFunds(balance, requested string) *AppError {
	return New(
		CodeInsufficientFunds,
		fmt.Sprintf("Insufficient funds: balance %s, requested %s", balance, requested),
		http.StatusUnprocessableEntity,
	)
}

// ---- Not found ----

func ErrWalletNotFound() *AppError {
	return New(CodeWalletNotFound, "Wallet not found", http.StatusNotFound)
}

// ---- Conflicts ----

func ErrDuplicateWallet() *AppError {
	return New(CodeDuplicateWallet, "Wallet already exists", http.StatusConflict)
}

func ErrDuplicateTransaction() *AppError {
	return New(CodeDuplicateTransaction, "Transaction already exists", http.StatusConflict)
}

// ErrOptimisticLockConflict reports that a concurrent writer won the race.
// Safe to retry by reloading; the retry decision belongs to the caller.
func ErrOptimisticLockConflict() *AppError {
	return New(CodeOptimisticLockConflict, "Wallet was modified concurrently, reload and retry", http.StatusConflict)
}

// ---- Infrastructure (surfaced after rollback) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeDatabaseError, "Internal database error", http.StatusInternalServerError, err)
}

func ErrTransactionTimeout(err error) *AppError {
	return Wrap(CodeTransactionTimeout, "Transaction timed out", http.StatusServiceUnavailable, err)
}

// ---- Corruption (fatal, should alert) ----

func ErrCorruptRecord(err error) *AppError {
	return Wrap(CodeCorruptRecord, "Stored record violates domain invariants", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeDatabaseError, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}
