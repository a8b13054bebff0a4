package domain

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable identifier for an account failure.
// Codes are part of the public contract and must not be renamed.
type Code string

// Failure codes reported by the account core.
const (
	CodeDuplicateEmail     Code = "duplicate_email"
	CodeUserNotFound       Code = "user_not_found"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeStoreUnavailable   Code = "store_unavailable"
	CodeHashFailed         Code = "hash_failed"
	CodeTokenInvalid       Code = "token_invalid"
	CodeTokenExpired       Code = "token_expired"
	CodeValidation         Code = "validation_failed"
)

// Error is a structured failure carrying a stable code, a human message and
// the underlying cause. Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons. Use NewError to attach a message or cause.
var (
	ErrDuplicateEmail     = &Error{Code: CodeDuplicateEmail, Message: "email already exists"}
	ErrUserNotFound       = &Error{Code: CodeUserNotFound, Message: "user doesn't exist"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "password is not matching"}
	ErrStoreUnavailable   = &Error{Code: CodeStoreUnavailable, Message: "credential store unavailable"}
	ErrHashFailed         = &Error{Code: CodeHashFailed, Message: "password hashing failed"}
	ErrTokenInvalid       = &Error{Code: CodeTokenInvalid, Message: "invalid session token"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "session token has expired"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
)

// NewError creates an Error with the given code, message and optional cause.
func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the failure code from err, or "" if err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether the caller may retry the failed operation.
// Only store unavailability is retryable; nothing is retried internally.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns ErrValidation so callers can match any validation failure.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
