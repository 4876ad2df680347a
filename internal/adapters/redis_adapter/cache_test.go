package redis_a_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/nweoo/zaycho-be/internal/adapters/redis_adapter"
	"github.com/nweoo/zaycho-be/internal/core/domain"
	"github.com/nweoo/zaycho-be/internal/core/ports"
	"github.com/nweoo/zaycho-be/test/helpers"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, ports.CacheRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{
			name:  "stores_and_retrieves_string",
			key:   "test:string",
			value: "test value",
		},
		{
			name: "stores_and_retrieves_category_counts",
			key:  "cat:counts",
			value: []domain.CategoryCount{
				{Name: "pants", ItemCount: 3},
				{Name: "tshirt", ItemCount: 7},
			},
		},
		{
			name:  "stores_and_retrieves_slice",
			key:   "test:slice",
			value: []string{"10000001", "20000001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cache.Set(ctx, tt.key, tt.value)
			require.NoError(t, err)

			var raw json.RawMessage
			err = cache.Get(ctx, tt.key, &raw)
			require.NoError(t, err)

			expected, _ := json.Marshal(tt.value)
			assert.JSONEq(t, string(expected), string(raw))
		})
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t)

	err := cache.SetWithTTL(ctx, "ttl:test", "value", 100*time.Millisecond)
	require.NoError(t, err)

	var result string
	err = cache.Get(ctx, "ttl:test", &result)
	require.NoError(t, err)
	assert.Equal(t, "value", result)

	mr.FastForward(200 * time.Millisecond)

	err = cache.Get(ctx, "ttl:test", &result)
	assert.Equal(t, redis_a.ErrCacheMiss, err)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	keys := []string{"del:1", "del:2", "del:3"}
	for _, key := range keys {
		require.NoError(t, cache.Set(ctx, key, "value"))
	}

	err := cache.Delete(ctx, keys...)
	require.NoError(t, err)

	for _, key := range keys {
		var result string
		err := cache.Get(ctx, key, &result)
		assert.Equal(t, redis_a.ErrCacheMiss, err)
	}
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	keysToDelete := []string{"cat:1", "cat:2", "cat:3"}
	keysToKeep := []string{"inv:1", "dash:2"}

	for _, key := range append(keysToDelete, keysToKeep...) {
		require.NoError(t, cache.Set(ctx, key, "value"))
	}

	err := cache.DeletePattern(ctx, "cat:*")
	require.NoError(t, err)

	for _, key := range keysToDelete {
		var result string
		err := cache.Get(ctx, key, &result)
		assert.Equal(t, redis_a.ErrCacheMiss, err, "key should be invalidated: %s", key)
	}

	for _, key := range keysToKeep {
		var result string
		require.NoError(t, cache.Get(ctx, key, &result))
		assert.Equal(t, "value", result)
	}
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	fetchCount := 0
	fetchFunc := func() (interface{}, error) {
		fetchCount++
		return "fetched value", nil
	}

	var result1 string
	err := cache.GetOrSet(ctx, "getorset:test", &result1, fetchFunc, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "fetched value", result1)
	assert.Equal(t, 1, fetchCount)

	var result2 string
	err = cache.GetOrSet(ctx, "getorset:test", &result2, fetchFunc, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "fetched value", result2)
	assert.Equal(t, 1, fetchCount)
}

func TestCache_Exists(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	require.NoError(t, cache.Set(ctx, "exists:1", "v"))

	ok, err := cache.Exists(ctx, "exists:1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Exists(ctx, "exists:1", "exists:missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_BuildKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   redis_a.CacheKeyPrefix
		parts    []string
		expected string
	}{
		{
			name:     "inventory_key",
			prefix:   redis_a.PrefixInventory,
			parts:    []string{"10000001", "details"},
			expected: "inv:10000001:details",
		},
		{
			name:     "categories_key",
			prefix:   redis_a.PrefixCategories,
			parts:    []string{"counts"},
			expected: "cat:counts",
		},
		{
			name:     "no_parts",
			prefix:   redis_a.PrefixDashboard,
			parts:    []string{},
			expected: "dash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := redis_a.BuildKey(tt.prefix, tt.parts...)
			assert.Equal(t, tt.expected, result)
		})
	}
}
