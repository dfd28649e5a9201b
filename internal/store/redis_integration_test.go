//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmendes/linkly/internal/shortener"
	"github.com/hmendes/linkly/internal/store"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisCacheRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	t.Run("serves cached link after create", func(t *testing.T) {
		inner := store.NewMemoryStore()
		cached := store.NewRedisCacheRepository(inner, client, time.Minute)

		link, err := cached.Create(ctx, "https://example.com", "rctest01", "alice@example.com")
		require.NoError(t, err)

		defer client.Del(ctx, "link:rctest01")

		got, err := cached.GetByCode(ctx, "rctest01")
		require.NoError(t, err)
		assert.Equal(t, link.OriginalURL, got.OriginalURL)
		assert.Equal(t, link.OwnerEmail, got.OwnerEmail)
	})

	t.Run("invalidates cache on delete", func(t *testing.T) {
		inner := store.NewMemoryStore()
		cached := store.NewRedisCacheRepository(inner, client, time.Minute)

		_, err := cached.Create(ctx, "https://example.com", "rcdel001", "alice@example.com")
		require.NoError(t, err)

		deleted, err := cached.DeleteByOwner(ctx, "alice@example.com", "rcdel001")
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = cached.GetByCode(ctx, "rcdel001")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("invalidates cache on increment so clicks stay fresh", func(t *testing.T) {
		inner := store.NewMemoryStore()
		cached := store.NewRedisCacheRepository(inner, client, time.Minute)

		_, err := cached.Create(ctx, "https://example.com", "rcinc001", "alice@example.com")
		require.NoError(t, err)

		defer client.Del(ctx, "link:rcinc001")

		require.NoError(t, cached.IncrementClicks(ctx, "rcinc001"))

		got, err := cached.GetByCode(ctx, "rcinc001")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Clicks)
	})
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	t.Run("counts requests in window", func(t *testing.T) {
		s := store.NewRateLimitRedisStore(client)

		defer client.Del(ctx, "ratelimit:rltest")

		for i := int64(1); i <= 3; i++ {
			count, err := s.Record(ctx, "rltest", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}
	})
}
