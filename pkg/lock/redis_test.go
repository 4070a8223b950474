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

func newRedisCoordinator(t *testing.T) (*RedisCoordinator, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCoordinator(rdb), mr
}

func TestRedisCoordinatorLock(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCoordinator(t)

	lease, ok, err := c.TryLock(ctx, "ABC123", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(lockPrefix+"ABC123"))
	assert.Equal(t, time.Minute, mr.TTL(lockPrefix+"ABC123"))

	_, ok, err = c.TryLock(ctx, "ABC123", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	lease.Release()
	assert.False(t, mr.Exists(lockPrefix+"ABC123"))

	_, ok, err = c.TryLock(ctx, "ABC123", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCoordinatorReleaseChecksToken(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCoordinator(t)

	stale, ok, err := c.TryLock(ctx, "ABC123", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	mr.FastForward(2 * time.Second)

	current, ok, err := c.TryLock(ctx, "ABC123", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	stale.Release()
	assert.True(t, mr.Exists(lockPrefix+"ABC123"), "stale release must not drop the current lock")

	held, err := stale.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, held)

	held, err = current.Extend(ctx, 2*time.Minute)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, 2*time.Minute, mr.TTL(lockPrefix+"ABC123"))
}

func TestRedisCoordinatorPending(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCoordinator(t)

	taken, err := c.TakePending(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, c.MarkPending(ctx, "ABC123"))
	assert.Equal(t, pendingTTL, mr.TTL(pendingPrefix+"ABC123"))

	has, err := c.HasPending(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, has)

	taken, err = c.TakePending(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, taken)

	has, err = c.HasPending(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRunWithRedisCoordinator(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCoordinator(t)

	runs := 0
	require.NoError(t, Run(ctx, c, "ABC123", time.Minute, func(context.Context) error {
		runs++
		return nil
	}))
	assert.Equal(t, 1, runs)
	assert.False(t, mr.Exists(lockPrefix+"ABC123"))
	assert.False(t, mr.Exists(pendingPrefix+"ABC123"))
}
