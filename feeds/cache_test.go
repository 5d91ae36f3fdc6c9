package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civfeed/models"
)

func TestCachePutGet(t *testing.T) {
	cache := NewCache(time.Minute)
	response := &models.TrendingResponse{Timeframe: "7d"}

	cache.Put("7d:10", response)

	got, ok := cache.Get("7d:10")
	require.True(t, ok)
	assert.Same(t, response, got)
}

func TestCacheMiss(t *testing.T) {
	cache := NewCache(time.Minute)

	got, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	cache := NewCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Put("7d:10", &models.TrendingResponse{Timeframe: "7d"})

	// Still fresh just inside the TTL
	now = now.Add(59 * time.Second)
	_, ok := cache.Get("7d:10")
	assert.True(t, ok)

	// Stale past the TTL, and dropped on lookup
	now = now.Add(2 * time.Second)
	_, ok = cache.Get("7d:10")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCachePutResetsTTL(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	cache := NewCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Put("7d:10", &models.TrendingResponse{GeneratedAt: "old"})
	now = now.Add(45 * time.Second)
	cache.Put("7d:10", &models.TrendingResponse{GeneratedAt: "new"})
	now = now.Add(45 * time.Second)

	got, ok := cache.Get("7d:10")
	require.True(t, ok)
	assert.Equal(t, "new", got.GeneratedAt)
}
