package cache

import (
	"context"
	"sync"
	"time"
)

type locMemEntry struct {
	value     []byte
	expiresAt time.Time
}

// LocMem is a process-local expiring cache, the default backend for
// development. Expired entries are dropped lazily on access.
type LocMem struct {
	mu      sync.Mutex
	entries map[string]locMemEntry
	now     func() time.Time
}

func NewLocMem() *LocMem {
	return &LocMem{
		entries: make(map[string]locMemEntry),
		now:     time.Now,
	}
}

func (c *LocMem) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (c *LocMem) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	entry := locMemEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocMem) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
