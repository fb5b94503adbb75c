package gateway

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKey = "pagofacil:access_token"

// RedisTokenCache stores the gateway token in Redis so every instance shares
// one login session.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache constructs the cache.
func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Get returns the cached token, or empty when absent.
func (c *RedisTokenCache) Get(ctx context.Context) (string, error) {
	token, err := c.client.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Set stores the token with the given TTL.
func (c *RedisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, tokenKey, token, ttl).Err()
}
