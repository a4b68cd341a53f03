// Package cache provides advisory TTL memoization for pipeline outputs.
// A nil or failing cache never blocks a request; the computed value is
// always returned.
package cache

import (
	"fmt"
	"sync"
	"time"
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Key builds the cache key for an operation on one subject.
func Key(op string, subjectID int64) string {
	return fmt.Sprintf("%s:%d", op, subjectID)
}

// GetOrCompute returns the cached value for key if present and unexpired,
// otherwise computes, stores and returns it. Compute errors pass through
// uncached.
func GetOrCompute(c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if c != nil {
		if val, ok := c.Get(key); ok {
			return val, nil
		}
	}
	val, err := compute()
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Set(key, val, ttl)
	}
	return val, nil
}

// Memory is an in-process TTL cache. Expired entries are dropped on read and
// opportunistically on write.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
}
