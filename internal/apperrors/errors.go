package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive or out-of-range monetary input.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientBalance indicates that spending would exceed the available balance.
var ErrInsufficientBalance = errors.New("insufficient available balance")

// ErrUnsupportedFrequency indicates an unrecognized interest frequency token.
var ErrUnsupportedFrequency = errors.New("unsupported interest frequency")

// ErrAccountInactive indicates a mutation attempted on a disabled ledger account.
var ErrAccountInactive = errors.New("ledger account is inactive")

// ErrPersistence indicates that the underlying storage transaction aborted.
var ErrPersistence = errors.New("persistence failure")

// ErrInvalidTransition indicates a status change the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrAccrualInProgress indicates another accrual run for the same frequency holds the run lock.
var ErrAccrualInProgress = errors.New("accrual run already in progress")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// Persistence wraps a storage error so that both ErrPersistence and the driver error
// remain reachable through errors.Is / errors.As.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
