package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// DefaultTokenTTL is the session token lifetime.
const DefaultTokenTTL = time.Hour

// MinSecretLength is the minimum signing secret size in bytes.
const MinSecretLength = 32

// Claim is the payload a session token asserts.
type Claim struct {
	UserID int64
}

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    int64
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionToken is an issued token together with its lifetime.
type SessionToken struct {
	Token     string
	ExpiresIn int // seconds
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	// Issue creates a signed token for claim that expires after the
	// issuer's TTL.
	Issue(ctx context.Context, claim Claim) (SessionToken, error)

	// Verify checks the signature and expiry of token and returns its
	// claims. Failures are token_invalid or token_expired errors.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// tokenClaims is the wire form of a session token payload.
type tokenClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

type hmacTokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	timeFunc func() time.Time
}

var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer returns an HS256 TokenIssuer. A zero ttl uses DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (TokenIssuer, error) {
	return newHMACTokenIssuer(secret, ttl, time.Now)
}

func newHMACTokenIssuer(secret string, ttl time.Duration, timeFunc func() time.Time) (*hmacTokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	if ttl < time.Second {
		return nil, fmt.Errorf("token ttl %s is below one second", ttl)
	}
	return &hmacTokenIssuer{
		secret:   []byte(secret),
		ttl:      ttl,
		timeFunc: timeFunc,
	}, nil
}

// Issue implements TokenIssuer.
func (s *hmacTokenIssuer) Issue(ctx context.Context, claim Claim) (SessionToken, error) {
	if claim.UserID <= 0 {
		return SessionToken{}, domain.NewError(domain.CodeTokenInvalid, "claim must carry a user id", nil)
	}

	now := s.timeFunc().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := tokenClaims{
		UserID: claim.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return SessionToken{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return SessionToken{
		Token:     signed,
		ExpiresIn: int(s.ttl / time.Second),
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify implements TokenIssuer.
func (s *hmacTokenIssuer) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, domain.NewError(domain.CodeTokenInvalid, "token is empty", nil)
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewError(domain.CodeTokenExpired, "session token has expired", err)
		}
		return nil, domain.NewError(domain.CodeTokenInvalid, "session token is invalid", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.UserID <= 0 {
		return nil, domain.NewError(domain.CodeTokenInvalid, "session token carries no user id", nil)
	}

	out := &Claims{
		UserID:  claims.UserID,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
