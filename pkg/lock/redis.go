package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix    = "fubot:lock:"
	pendingPrefix = "fubot:pending:"
	pendingTTL    = time.Hour
)

// Deletes the lock only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Resets the TTL only if we still own the lock.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisCoordinator shares locks between every process using the same Redis.
type RedisCoordinator struct {
	rdb *redis.Client
}

func NewRedisCoordinator(rdb *redis.Client) *RedisCoordinator {
	return &RedisCoordinator{rdb: rdb}
}

type redisLease struct {
	rdb   *redis.Client
	key   string
	token string
}

func (r *RedisCoordinator) TryLock(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error) {
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &redisLease{rdb: r.rdb, key: lockPrefix + key, token: token}, true, nil
}

func (l *redisLease) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, l.rdb, []string{l.key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("extend lock: %w", err)
	}
	return n == 1, nil
}

func (l *redisLease) Release() {
	// The caller's context may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token)
}

func (r *RedisCoordinator) MarkPending(ctx context.Context, key string) error {
	return r.rdb.Set(ctx, pendingPrefix+key, 1, pendingTTL).Err()
}

func (r *RedisCoordinator) TakePending(ctx context.Context, key string) (bool, error) {
	err := r.rdb.GetDel(ctx, pendingPrefix+key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisCoordinator) HasPending(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, pendingPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
