package mocks

import (
	"context"
	"strings"

	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher. By default it "hashes"
// by prefixing "hashed:" so tests stay fast and deterministic.
type MockPasswordHasher struct {
	HashFn   func(ctx context.Context, plaintext string) (string, error)
	VerifyFn func(ctx context.Context, plaintext, hashed string) (bool, error)
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(ctx, plaintext)
	}
	return "hashed:" + plaintext, nil
}

// Verify implements auth.PasswordHasher.
func (m *MockPasswordHasher) Verify(ctx context.Context, plaintext, hashed string) (bool, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, plaintext, hashed)
	}
	return strings.TrimPrefix(hashed, "hashed:") == plaintext && strings.HasPrefix(hashed, "hashed:"), nil
}
