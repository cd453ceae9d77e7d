package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-ai/datasheet-ui/internal/testutil"
)

func TestTokenStore_SetGetClear(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store, err := NewTokenStore(TokenStoreOptions{Client: client, Profile: "analyst"})
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := store.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "abc"))
	token, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	ttl, err := client.TTL(ctx, store.Key()).Result()
	require.NoError(t, err)
	assert.Less(t, int64(ttl), int64(0), "token must not expire client-side")

	store.Clear(ctx)
	_, ok = store.Get(ctx)
	assert.False(t, ok)

	store.Clear(ctx)
	_, ok = store.Get(ctx)
	assert.False(t, ok)
}

func TestTokenStore_ProfilesAreIsolated(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	a, err := NewTokenStore(TokenStoreOptions{Client: client, Profile: "a"})
	require.NoError(t, err)
	b, err := NewTokenStore(TokenStoreOptions{Client: client, Profile: "b"})
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "token-a"))
	_, ok := b.Get(ctx)
	assert.False(t, ok)

	b.Clear(ctx)
	token, ok := a.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "token-a", token)
}

func TestNewTokenStore_Defaults(t *testing.T) {
	_, err := NewTokenStore(TokenStoreOptions{})
	require.Error(t, err)
}
