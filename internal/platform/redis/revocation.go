// Package redis provides a session revocation list shared across service
// instances. Each revoked token is a key that expires with the token.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "accounts:revoked:"

// RevocationList stores revoked token IDs in Redis.
type RevocationList struct {
	rdb goredis.UniversalClient
	now func() time.Time
}

// Options configures NewClient.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a client. Addr may be host:port or a redis:// URL.
func NewClient(opts Options) (*goredis.Client, error) {
	if strings.HasPrefix(opts.Addr, "redis://") || strings.HasPrefix(opts.Addr, "rediss://") {
		parsed, err := goredis.ParseURL(opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return goredis.NewClient(parsed), nil
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

// NewRevocationList creates a revocation list over rdb.
func NewRevocationList(rdb goredis.UniversalClient) *RevocationList {
	return &RevocationList{rdb: rdb, now: time.Now}
}

// Revoke marks tokenID as revoked until expiresAt. Tokens already past
// expiry are not stored.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID is currently revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

// Ping checks connectivity.
func (r *RevocationList) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}
