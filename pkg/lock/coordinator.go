// Package lock single-flights background work per key.
package lock

import (
	"context"
	"time"
)

// Lease is one acquisition of a key. Extend and Release only act while the
// lease is still the current holder.
type Lease interface {
	// Extend resets the TTL. false means the lease expired or was taken over.
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
	Release()
}

// Coordinator holds per-key locks and "run again" markers.
type Coordinator interface {
	// TryLock takes the lock for key. ok is false when another holder has it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (lease Lease, ok bool, err error)
	MarkPending(ctx context.Context, key string) error
	// TakePending clears the marker and reports whether it was set.
	TakePending(ctx context.Context, key string) (bool, error)
	HasPending(ctx context.Context, key string) (bool, error)
}

// Run executes fn for key at most once at a time across everything sharing
// the coordinator. A call that finds the key busy only leaves a marker; the
// holder sees it and runs fn again, so the last request is never lost.
// ttl must outlast a single fn pass; the lease is renewed before each pass.
// The returned error is the last failure of fn, if any.
func Run(ctx context.Context, c Coordinator, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if err := c.MarkPending(ctx, key); err != nil {
		return err
	}

	var lastErr error
	for {
		lease, ok, err := c.TryLock(ctx, key, ttl)
		if err != nil {
			return err
		}
		if !ok {
			return lastErr
		}

		lost, err := drain(ctx, c, lease, key, ttl, fn, &lastErr)
		lease.Release()
		if err != nil {
			return err
		}
		if lost {
			// The marker is still set; whoever holds the key now will run it,
			// or the next TryLock picks it up.
			continue
		}

		// A marker set between the last take and the release has no holder.
		pending, err := c.HasPending(ctx, key)
		if err != nil {
			return err
		}
		if !pending {
			return lastErr
		}
	}
}

// drain runs fn once per pending marker while lease stays valid. lost reports
// that the lease expired before a pass could start.
func drain(ctx context.Context, c Coordinator, lease Lease, key string, ttl time.Duration, fn func(ctx context.Context) error, lastErr *error) (lost bool, err error) {
	for {
		held, err := lease.Extend(ctx, ttl)
		if err != nil {
			return false, err
		}
		if !held {
			return true, nil
		}

		taken, err := c.TakePending(ctx, key)
		if err != nil {
			return false, err
		}
		if !taken {
			return false, nil
		}
		if err := fn(ctx); err != nil {
			*lastErr = err
		}
	}
}
