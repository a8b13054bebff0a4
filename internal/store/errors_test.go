package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "wrapped ErrUserNotFound", err: fmt.Errorf("failed to find user: %w", ErrUserNotFound), expected: true},
		{name: "ErrEmailExists", err: ErrEmailExists, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrEmailExists", err: ErrEmailExists, expected: true},
		{name: "wrapped ErrEmailExists", err: fmt.Errorf("create: %w", ErrEmailExists), expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("user", "delete", "query failed", cause)

	assert.Equal(t, "delete operation on user failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "list", "scan failed", nil)
	assert.Equal(t, "list operation on user failed: scan failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestToDomainError(t *testing.T) {
	assert.NoError(t, ToDomainError(nil, "ignored"))

	err := ToDomainError(fmt.Errorf("find: %w", ErrUserNotFound), "This email a@x.com was not found")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, err.Error(), "This email a@x.com was not found")

	err = ToDomainError(ErrEmailExists, "This email a@x.com already exists")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	err = ToDomainError(fmt.Errorf("query: %w", ErrUnavailable), "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, domain.IsRetryable(err))

	err = ToDomainError(context.DeadlineExceeded, "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = ToDomainError(fmt.Errorf("find: %w", context.Canceled), "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	other := errors.New("scan failed")
	assert.Same(t, other, ToDomainError(other, ""))
}
