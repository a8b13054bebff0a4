package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedKey(t *testing.T) {
	assert.Equal(t, "accounts:revoked:abc", revokedKey("abc"))
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(Options{Addr: "redis://:pw@localhost:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
	_ = c.Close()

	c, err = NewClient(Options{Addr: "localhost:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Options().DB)
	_ = c.Close()

	_, err = NewClient(Options{Addr: "redis://[bad"})
	assert.Error(t, err)
}

func TestRevoke_SkipsExpiredWithoutNetwork(t *testing.T) {
	c, err := NewClient(Options{Addr: "localhost:1"})
	require.NoError(t, err)
	defer c.Close()

	r := NewRevocationList(c)
	assert.NoError(t, r.Revoke(context.Background(), "jti", time.Now().Add(-time.Minute)))
	assert.Error(t, r.Revoke(context.Background(), "", time.Now().Add(time.Minute)))
}

// TestRevocationList_Redis runs against a live server when REDIS_URL is set.
func TestRevocationList_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	c, err := NewClient(Options{Addr: url})
	require.NoError(t, err)
	defer c.Close()

	r := NewRevocationList(c)
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	jti := uuid.NewString()
	revoked, err := r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := c.TTL(ctx, revokedKey(jti)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
