package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to act.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidTransition indicates the target status is not a legal successor
// of the entity's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrEntityLocked indicates the entity is in a terminal status and accepts
// no further transitions.
var ErrEntityLocked = errors.New("entity is in a terminal status")

// ErrImmutableEntity indicates the entity may no longer be edited or deleted
// because it has been committed to a distribution.
var ErrImmutableEntity = errors.New("entity is immutable")

// ErrDonorBlacklisted indicates a donation was attempted against a blacklisted donor.
var ErrDonorBlacklisted = errors.New("donor is blacklisted")

// ErrConcurrentUpdateConflict indicates an allocation or transition lost a
// concurrency race after exhausting its retry attempts. Callers may retry.
var ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

// ErrStoreTimeout indicates a ledger store operation exceeded its deadline.
var ErrStoreTimeout = errors.New("store operation timed out")

// ErrStoreUnavailable indicates the ledger store could not be reached.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// InsufficientInventoryError reports an allocation request that exceeds the
// currently stored quantity for a category.
type InsufficientInventoryError struct {
	Category  string
	Requested int64
	Available int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for category %q: requested %d, available %d",
		e.Category, e.Requested, e.Available)
}

// InsufficientFundsError reports a monetary allocation request that exceeds
// the verified, unallocated pledged balance.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s, available %s",
		e.Requested.String(), e.Available.String())
}

// AppError wraps a lower-level error with an HTTP-ish status code and message.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
