package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer. The default Issue returns
// a fixed token and the default Verify accepts only that token.
type MockTokenIssuer struct {
	IssueFn  func(ctx context.Context, claim auth.Claim) (auth.SessionToken, error)
	VerifyFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token     string
	UserID    int64
	ExpiresIn int
}

var _ auth.TokenIssuer = (*MockTokenIssuer)(nil)

// Issue implements auth.TokenIssuer.
func (m *MockTokenIssuer) Issue(ctx context.Context, claim auth.Claim) (auth.SessionToken, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, claim)
	}
	m.UserID = claim.UserID
	ttl := m.ExpiresIn
	if ttl == 0 {
		ttl = 3600
	}
	return auth.SessionToken{
		Token:     m.token(),
		ExpiresIn: ttl,
		TokenID:   "mock-jti",
		ExpiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}, nil
}

// Verify implements auth.TokenIssuer.
func (m *MockTokenIssuer) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if token != m.token() || m.UserID == 0 {
		return nil, domain.ErrTokenInvalid
	}
	return &auth.Claims{
		UserID:    m.UserID,
		TokenID:   "mock-jti",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockTokenIssuer) token() string {
	if m.Token == "" {
		return "mock-token"
	}
	return m.Token
}
