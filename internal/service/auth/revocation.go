package auth

import (
	"context"
	"time"
)

// RevocationList records session tokens that were ended before their
// natural expiry. Entries need only be kept until expiresAt.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
