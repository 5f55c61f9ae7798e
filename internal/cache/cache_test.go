package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStable(t *testing.T) {
	body := []byte(`{"criteria":{"loanAmount":10000}}`)
	assert.Equal(t, Key("standard", body), Key("standard", body))
	assert.NotEqual(t, Key("standard", body), Key("weighted", body))
	assert.NotEqual(t, Key("standard", body), Key("standard", []byte(`{}`)))
	assert.True(t, strings.HasPrefix(Key("standard", body), "standard:"))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	val, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v"))

	now = now.Add(59 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRedisKeyPrefix(t *testing.T) {
	r := NewRedis("localhost:6379", time.Minute)
	defer func() { _ = r.Close() }()

	assert.Equal(t, "loan-match:standard:abc", r.key("standard:abc"))
	var _ Cache = r
	var _ Cache = NewMemory(0)
}
