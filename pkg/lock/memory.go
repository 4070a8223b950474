package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryCoordinator works inside one process. Locks live in go-cache keyed by
// passcode with the holder's token as value, so a crashed holder's lock
// still expires after its TTL.
type MemoryCoordinator struct {
	mu      sync.Mutex
	locks   *cache.Cache
	pending map[string]struct{}
}

func NewMemoryCoordinator() *MemoryCoordinator {
	// Purge expired locks every minute
	return &MemoryCoordinator{
		locks:   cache.New(5*time.Minute, time.Minute),
		pending: make(map[string]struct{}),
	}
}

type memoryLease struct {
	m     *MemoryCoordinator
	key   string
	token string
}

func (m *MemoryCoordinator) TryLock(_ context.Context, key string, ttl time.Duration) (Lease, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	if err := m.locks.Add(key, token, ttl); err != nil {
		// Add fails only when an unexpired item exists.
		return nil, false, nil
	}
	return &memoryLease{m: m, key: key, token: token}, true, nil
}

// owned reports whether the unexpired lock for key carries token. Callers
// hold m.mu.
func (m *MemoryCoordinator) owned(key, token string) bool {
	v, ok := m.locks.Get(key)
	return ok && v.(string) == token
}

func (l *memoryLease) Extend(_ context.Context, ttl time.Duration) (bool, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if !l.m.owned(l.key, l.token) {
		return false, nil
	}
	l.m.locks.Set(l.key, l.token, ttl)
	return true, nil
}

func (l *memoryLease) Release() {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if l.m.owned(l.key, l.token) {
		l.m.locks.Delete(l.key)
	}
}

func (m *MemoryCoordinator) MarkPending(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[key] = struct{}{}
	return nil
}

func (m *MemoryCoordinator) TakePending(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[key]; !ok {
		return false, nil
	}
	delete(m.pending, key)
	return true, nil
}

func (m *MemoryCoordinator) HasPending(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[key]
	return ok, nil
}
