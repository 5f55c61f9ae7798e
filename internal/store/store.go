// Package store defines the repository ports used by the recommendation
// callers and an in-memory implementation of them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no entity exists for a key.
var ErrNotFound = errors.New("not found")

// ErrMissingKey is returned when an entity without a key is stored.
var ErrMissingKey = errors.New("entity has no key")

// Entity is anything addressable by a string key.
type Entity interface {
	Key() string
}

// Repository is the get/list/put capability for one entity type.
type Repository[T Entity] interface {
	Get(ctx context.Context, key string) (T, error)
	List(ctx context.Context) ([]T, error)
	Put(ctx context.Context, item T) error
}

// NewID returns a fresh random identifier for entities created at runtime.
func NewID() string {
	return uuid.New().String()
}

// Memory is a process-local Repository. List returns entities in the order
// their keys were first stored.
type Memory[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewMemory creates a repository seeded with items. Seeding fails on the
// first item without a key.
func NewMemory[T Entity](items ...T) (*Memory[T], error) {
	m := &Memory[T]{items: make(map[string]T, len(items))}
	for _, item := range items {
		if err := m.Put(context.Background(), item); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Get returns the entity stored under key.
func (m *Memory[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return item, nil
}

// List returns a snapshot of all stored entities.
func (m *Memory[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]T, 0, len(m.order))
	for _, key := range m.order {
		items = append(items, m.items[key])
	}
	return items, nil
}

// Put inserts or replaces the entity under its key.
func (m *Memory[T]) Put(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := item.Key()
	if strings.TrimSpace(key) == "" {
		return ErrMissingKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
	}
	m.items[key] = item
	return nil
}
