package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/phrazzld/accounts-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultBcryptCost is the work factor used for new hashes.
const DefaultBcryptCost = 10

// PasswordHasher performs one-way salted hashing of plaintext passwords.
type PasswordHasher interface {
	// Hash returns a salted hash of plaintext. It fails with a hash_failed
	// error only on underlying entropy or resource failure.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches hashed. A mismatch, or a
	// malformed hash, is (false, nil). An error is returned only when ctx
	// ends while waiting for a hashing slot.
	Verify(ctx context.Context, plaintext, hashed string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt. Hashing is CPU-bound,
// so concurrent hash and compare calls are bounded by a weighted semaphore
// and never starve unrelated request goroutines.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher with the given cost. A non-positive
// concurrency defaults to GOMAXPROCS.
func NewBcryptHasher(cost, concurrency int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &BcryptHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", domain.NewError(domain.CodeHashFailed, "no hashing slot available", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", domain.NewError(domain.CodeHashFailed, "failed to hash password", err)
	}
	return string(hashed), nil
}

// Verify implements PasswordHasher.
// Plaintexts over domain.MaxPasswordBytes never match: bcrypt only reads
// the first 72 bytes, so a longer input would match on its prefix.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hashed string) (bool, error) {
	if len(plaintext) > domain.MaxPasswordBytes {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// malformed or foreign hash: never matches
		return false, nil
	}
}
