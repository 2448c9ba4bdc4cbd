package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clickstream-labs/intent-engine/internal/domain/providers"
)

type memoryEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// MemoryAdapter implements the CacheProvider interface with an in-process
// map. Expiry is lazy: a stale entry is evicted by the read that finds it,
// there is no background sweeper. Safe for concurrent use; duplicate
// computation on a racing miss is tolerated, last write wins.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a value from cache, evicting the entry if it has expired
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	if a.now().Sub(e.storedAt) >= e.ttl {
		a.mu.Lock()
		// The entry may have been refreshed while unlocked; only evict the
		// generation we observed.
		if cur, ok := a.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(a.entries, key)
		}
		a.mu.Unlock()
		return nil, fmt.Errorf("key not found: %s", key)
	}

	return e.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	if expirationSeconds <= 0 {
		return fmt.Errorf("invalid expiration: %d seconds", expirationSeconds)
	}

	buf := make([]byte, len(value))
	copy(buf, value)

	a.mu.Lock()
	a.entries[key] = memoryEntry{
		value:    buf,
		storedAt: a.now(),
		ttl:      time.Duration(expirationSeconds) * time.Second,
	}
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache, applying the same lazy expiry as Get
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := a.Get(ctx, key); err != nil {
		return false, nil
	}
	return true, nil
}

// Clear removes all entries from cache
func (a *MemoryAdapter) Clear(ctx context.Context) error {
	a.mu.Lock()
	a.entries = make(map[string]memoryEntry)
	a.mu.Unlock()
	return nil
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)
