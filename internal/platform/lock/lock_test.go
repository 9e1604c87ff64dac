package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLock(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "hrleave:lock:"), mr
}

func TestRedisAcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLock(t)

	release, err := locker.Acquire(ctx, "generation:2025", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("hrleave:lock:generation:2025"))

	_, err = locker.Acquire(ctx, "generation:2025", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	_, err = locker.Acquire(ctx, "generation:2026", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("hrleave:lock:generation:2025"))

	_, err = locker.Acquire(ctx, "generation:2025", time.Minute)
	assert.NoError(t, err)
}

func TestRedisLockExpires(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLock(t)

	_, err := locker.Acquire(ctx, "generation:2025", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = locker.Acquire(ctx, "generation:2025", time.Second)
	assert.NoError(t, err)
}

func TestRedisReleaseKeepsForeignToken(t *testing.T) {
	ctx := context.Background()
	locker, mr := newRedisLock(t)

	release, err := locker.Acquire(ctx, "generation:2025", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = locker.Acquire(ctx, "generation:2025", time.Minute)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	assert.True(t, mr.Exists("hrleave:lock:generation:2025"))
}

func TestMemoryAcquire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	locker := NewMemory()
	locker.clock = func() time.Time { return now }

	release, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(ctx))
	release2, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	// a stale release must not drop the newer holder
	require.NoError(t, release(ctx))
	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)
	require.NoError(t, release2(ctx))

	_, err = locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.NoError(t, err)
}
