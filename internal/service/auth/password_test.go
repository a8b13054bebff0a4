package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(DefaultBcryptCost, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, h.Cost())

	_, err = NewBcryptHasher(bcrypt.MinCost-1, 1)
	assert.Error(t, err)
	_, err = NewBcryptHasher(bcrypt.MaxCost+1, 1)
	assert.Error(t, err)
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	ctx := context.Background()

	hashed, err := h.Hash(ctx, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hashed, "hash must never equal plaintext")
	assert.True(t, strings.HasPrefix(hashed, "$2a$"))

	again, err := h.Hash(ctx, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salting must produce distinct hashes")

	ok, err := h.Verify(ctx, "p1", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, "wrong", hashed)
	require.NoError(t, err)
	assert.False(t, ok, "mismatch is false, not an error")

	ok, err = h.Verify(ctx, "p1", "not-a-bcrypt-hash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(DefaultBcryptCost, 1)
	require.NoError(t, err)

	hashed, err := h.Hash(context.Background(), "p1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	_, err = h.Hash(context.Background(), strings.Repeat("x", 73))
	assert.ErrorIs(t, err, domain.ErrHashFailed)
}

func TestBcryptHasher_VerifyRejectsInputBeyondLimit(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)
	ctx := context.Background()

	password := strings.Repeat("a", domain.MaxPasswordBytes)
	hashed, err := h.Hash(ctx, password)
	require.NoError(t, err)

	ok, err := h.Verify(ctx, password, hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, password+"EXTRA", hashed)
	require.NoError(t, err)
	assert.False(t, ok, "input sharing the 72-byte prefix must not match")
}

func TestBcryptHasher_ContextCanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, err)

	// occupy the only slot
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Hash(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrHashFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = h.Verify(ctx, "p1", "$2a$04$abc")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBcryptHasher_ConcurrentUse(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hashed, err := h.Hash(context.Background(), "concurrent")
			if err != nil {
				errs <- err
				return
			}
			if ok, _ := h.Verify(context.Background(), "concurrent", hashed); !ok {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
