package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

func setupLinkCache(t testing.TB, ttl time.Duration) (*LinkCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
	})

	return NewLinkCache(rdb, ttl), mr
}

func TestLinkCache_Get(t *testing.T) {
	t.Run("miss", func(t *testing.T) {
		cache, _ := setupLinkCache(t, time.Minute)

		originalURL, err := cache.Get(context.Background(), "abc1234")

		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
		assert.Empty(t, originalURL)
	})

	t.Run("server error", func(t *testing.T) {
		cache, mr := setupLinkCache(t, time.Minute)
		mr.SetError("server unavailable")

		originalURL, err := cache.Get(context.Background(), "abc1234")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, entity.ErrLinkNotFound)
		assert.Empty(t, originalURL)
	})

	t.Run("hit", func(t *testing.T) {
		cache, mr := setupLinkCache(t, time.Minute)
		assert.NoError(t, mr.Set("link:abc1234", "https://example.com"))

		originalURL, err := cache.Get(context.Background(), "abc1234")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com", originalURL)
	})
}

func TestLinkCache_Set(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		cache, mr := setupLinkCache(t, time.Minute)
		mr.SetError("server unavailable")

		err := cache.Set(context.Background(), "abc1234", "https://example.com")

		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		cache, mr := setupLinkCache(t, time.Minute)

		err := cache.Set(context.Background(), "abc1234", "https://example.com")

		assert.NoError(t, err)
		mr.CheckGet(t, "link:abc1234", "https://example.com")
		assert.Equal(t, time.Minute, mr.TTL("link:abc1234"))
	})

	t.Run("expires", func(t *testing.T) {
		cache, mr := setupLinkCache(t, time.Minute)

		err := cache.Set(context.Background(), "abc1234", "https://example.com")
		assert.NoError(t, err)

		mr.FastForward(2 * time.Minute)

		_, err = cache.Get(context.Background(), "abc1234")
		assert.ErrorIs(t, err, entity.ErrLinkNotFound)
	})
}
