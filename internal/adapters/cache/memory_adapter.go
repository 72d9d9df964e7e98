package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements CacheProvider with an in-process map. It is the
// fallback when Redis is unavailable, and the store used in tests. Session
// state held here does not survive a process restart.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value from the store
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()
	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value. An expiration of zero keeps the entry until it is
// explicitly deleted.
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if expirationSeconds > 0 {
		entry.expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.mu.Lock()
	a.entries[key] = entry
	a.mu.Unlock()
	return nil
}

// Delete removes a value from the store
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.entries, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key exists in the store
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	entry, ok := a.entries[key]
	a.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return false, nil
	}
	return true, nil
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)
