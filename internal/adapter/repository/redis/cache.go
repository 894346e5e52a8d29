// Package redis caches the code to original URL mapping used by the redirect path.
// Original URLs never change once a link exists, so entries only expire by TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const keyPrefix = "link:"

func key(code string) string {
	return keyPrefix + code
}

type LinkCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewLinkCache(rdb *goredis.Client, ttl time.Duration) *LinkCache {
	return &LinkCache{
		rdb: rdb,
		ttl: ttl,
	}
}

// Get returns the cached original URL for code, or entity.ErrLinkNotFound on a miss.
func (c *LinkCache) Get(ctx context.Context, code string) (string, error) {
	const op = "adapter.repository.redis.LinkCache.Get"

	originalURL, err := c.rdb.Get(ctx, key(code)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return "", fmt.Errorf("%s: failed to get cached link: %w", op, err)
	}

	return originalURL, nil
}

func (c *LinkCache) Set(ctx context.Context, code, originalURL string) error {
	const op = "adapter.repository.redis.LinkCache.Set"

	if err := c.rdb.Set(ctx, key(code), originalURL, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to cache link: %w", op, err)
	}

	return nil
}
