package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string
	Name string
}

func (w widget) Key() string { return w.ID }

func TestMemoryGetListPut(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemory(widget{ID: "b", Name: "second"}, widget{ID: "a", Name: "first"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	require.NoError(t, repo.Put(ctx, widget{ID: "a", Name: "replaced"}))
	require.NoError(t, repo.Put(ctx, widget{ID: "c", Name: "third"}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{{"b", "second"}, {"a", "replaced"}, {"c", "third"}}, all)
}

func TestMemoryNotFound(t *testing.T) {
	repo, err := NewMemory[widget]()
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestMemoryMissingKey(t *testing.T) {
	_, err := NewMemory(widget{Name: "anonymous"})
	assert.True(t, errors.Is(err, ErrMissingKey))
}

func TestMemoryCancelledContext(t *testing.T) {
	repo, err := NewMemory(widget{ID: "a"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Put(ctx, widget{ID: "b"}), context.Canceled)
}

func TestMemoryConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemory[widget]()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Put(ctx, widget{ID: fmt.Sprintf("w%d", i)})
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
