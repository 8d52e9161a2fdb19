package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
	"github.com/olive/canteen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingLoginStore_PutTake(t *testing.T) {
	store := NewPendingLoginStore(nil)
	ctx := context.Background()
	p := ports.PendingLogin{Provider: domainauth.ProviderZalo, Verifier: "v"}

	require.NoError(t, store.Put(ctx, "s1", p, time.Minute))
	got, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = store.Take(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrPendingLoginNotFound)
}

func TestPendingLoginStore_Expiry(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := NewPendingLoginStore(clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old", ports.PendingLogin{}, 10*time.Minute))
	clock.AddTime(10 * time.Minute)

	_, err := store.Take(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrPendingLoginNotFound)
}

func TestPendingLoginStore_PutSweepsExpired(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := NewPendingLoginStore(clock.Now)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("s%d", i), ports.PendingLogin{}, time.Minute))
	}
	clock.AddTime(2 * time.Minute)
	require.NoError(t, store.Put(ctx, "fresh", ports.PendingLogin{}, time.Minute))

	assert.Equal(t, 1, store.Len())
}

func TestPendingLoginStore_Validation(t *testing.T) {
	store := NewPendingLoginStore(nil)
	assert.Error(t, store.Put(context.Background(), "", ports.PendingLogin{}, time.Minute))
	assert.Error(t, store.Put(context.Background(), "s", ports.PendingLogin{}, 0))
}

func TestPendingLoginStore_ConcurrentTakeSucceedsOnce(t *testing.T) {
	store := NewPendingLoginStore(nil)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "race", ports.PendingLogin{Verifier: "v"}, time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "race"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
