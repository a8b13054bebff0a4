package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnavailable is returned when the backing store cannot be reached
	// (connection refused, timeout, pool closed). Callers may retry.
	ErrUnavailable = errors.New("store unavailable")

	// ErrTransactionFailed is returned when a transaction fails to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "user")
	Operation string // The operation that failed (e.g., "create", "delete")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ToDomainError translates a store failure into the account error taxonomy.
// message becomes the human-readable part of not-found and duplicate errors.
// Errors that carry no recognizable store meaning are returned unchanged.
func ToDomainError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound):
		return domain.NewError(domain.CodeUserNotFound, message, err)
	case errors.Is(err, ErrEmailExists):
		return domain.NewError(domain.CodeDuplicateEmail, message, err)
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return domain.NewError(domain.CodeStoreUnavailable, "credential store unavailable", err)
	case errors.Is(err, context.Canceled):
		return domain.NewError(domain.CodeStoreUnavailable, "request canceled before the store answered", err)
	default:
		return err
	}
}
