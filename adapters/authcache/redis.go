package authcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sui-direct/node/ports"
)

// RedisCache stores authorizations as TTL keys so several node instances can
// share them.
type RedisCache struct {
	client    *redis.Client
	retention time.Duration
	prefix    string
}

func NewRedisCache(client *redis.Client, retention time.Duration) *RedisCache {
	return &RedisCache{
		client:    client,
		retention: retention,
		prefix:    "direct:authorized:",
	}
}

var _ ports.AuthCache = (*RedisCache)(nil)

func (c *RedisCache) Grant(ctx context.Context, peerID string) error {
	if err := c.client.Set(ctx, c.prefix+peerID, "1", c.retention).Err(); err != nil {
		return fmt.Errorf("failed to grant authorization: %w", err)
	}
	return nil
}

func (c *RedisCache) IsAuthorized(ctx context.Context, peerID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+peerID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check authorization: %w", err)
	}
	return n > 0, nil
}

// Purge is a no-op: Redis expires the keys itself.
func (c *RedisCache) Purge(ctx context.Context) (int, error) {
	return 0, nil
}
