package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memoryCache is a process-local Cache. Entries expire lazily on read.
type memoryCache struct {
	namespace string

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

// NewMemory creates an in-process cache.
func NewMemory(namespace string) Cache {
	return &memoryCache{
		namespace: namespace,
		entries:   make(map[string]memoryEntry),
	}
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *memoryCache) Key(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.namespace, operation, key)
}
