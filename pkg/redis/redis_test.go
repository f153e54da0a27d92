package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	opts, err := NewOptions(Config{URL: "redis://:urlpass@cache:6380/2", Password: "override"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "override", opts.Password)
	assert.Nil(t, opts.TLSConfig)

	opts, err = NewOptions(Config{URL: "rediss://cache:6379"})
	require.NoError(t, err)
	require.NotNil(t, opts.TLSConfig)
}

func TestNewOptionsRequiresURL(t *testing.T) {
	_, err := NewOptions(Config{})
	assert.Error(t, err)

	_, err = NewOptions(Config{URL: "http://cache"})
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "entry outlives its token")
}

func TestMemorySessionStoreIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.Revoke(ctx, "jti-2", 0))
	revoked, _ := store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)
}
