package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationList holds revoked token IDs until their expiry. Expired
// entries are pruned lazily on write.
type RevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewRevocationList creates an empty list.
func NewRevocationList() *RevocationList {
	return &RevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records tokenID as revoked until expiresAt.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, id)
		}
	}
	if expiresAt.After(now) {
		r.entries[tokenID] = expiresAt
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.entries[tokenID]
	return ok && exp.After(r.now()), nil
}

// Len returns the number of live entries.
func (r *RevocationList) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
