package redis

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
	"github.com/olive/canteen/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func pending() ports.PendingLogin {
	return ports.PendingLogin{
		Provider:  domainauth.ProviderGoogle,
		Verifier:  "verifier-1",
		CreatedAt: testutil.TestTime(),
	}
}

func TestPendingLoginStore_PutAndTake(t *testing.T) {
	client := setupTestRedis(t)
	store := NewPendingLoginStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "state-1", pending(), time.Minute))

	got, err := store.Take(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.ProviderGoogle, got.Provider)
	assert.Equal(t, "verifier-1", got.Verifier)
	assert.True(t, got.CreatedAt.Equal(testutil.TestTime()))
}

func TestPendingLoginStore_TakeIsSingleUse(t *testing.T) {
	client := setupTestRedis(t)
	store := NewPendingLoginStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "state-once", pending(), time.Minute))
	_, err := store.Take(ctx, "state-once")
	require.NoError(t, err)

	_, err = store.Take(ctx, "state-once")
	assert.ErrorIs(t, err, ports.ErrPendingLoginNotFound)
}

func TestPendingLoginStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	store := NewPendingLoginStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "state-ttl", pending(), 100*time.Millisecond))
	time.Sleep(200 * time.Millisecond)

	_, err := store.Take(ctx, "state-ttl")
	assert.ErrorIs(t, err, ports.ErrPendingLoginNotFound)
}

func TestPendingLoginStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	store := NewPendingLoginStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "prefixed", pending(), time.Minute))
	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:prefixed").Val())
}

func TestPendingLoginStore_Validation(t *testing.T) {
	client := setupTestRedis(t)
	store := NewPendingLoginStore(client)
	ctx := context.Background()

	require.Error(t, store.Put(ctx, "", pending(), time.Minute))
	require.Error(t, store.Put(ctx, "s", pending(), 0))

	_, err := store.Take(ctx, "")
	assert.ErrorIs(t, err, ports.ErrPendingLoginNotFound)
}
