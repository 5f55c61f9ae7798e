// Package cache stores computed recommendation responses so identical
// requests are served without rescoring.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a string key/value store with a fixed entry lifetime.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Key derives a stable cache key from a namespace and request body.
func Key(namespace string, body []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(namespace)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(body)
	return namespace + ":" + strconv.FormatUint(d.Sum64(), 16)
}

type entry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache. A zero TTL keeps entries forever.
type Memory struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]entry
	now  func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:  ttl,
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the cached value if present and not expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	e := entry{value: value}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including expired ones not yet evicted.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
