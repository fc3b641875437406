package presence

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// RedisProvider marks a user online while a presence key with a TTL exists.
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProvider connects to url and verifies the connection.
func NewRedisProvider(ctx context.Context, url string, ttl time.Duration) (*RedisProvider, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisProviderFromClient(c, ttl), nil
}

// NewRedisProviderFromClient wraps an existing client.
func NewRedisProviderFromClient(c *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{client: c, ttl: ttl}
}

var _ Provider = (*RedisProvider)(nil)

// Online checks the presence keys of all ids in one round trip.
func (p *RedisProvider) Online(ctx context.Context, userIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = keyPrefix + id
	}
	vals, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: mget presence: %w", err)
	}
	for i, id := range userIDs {
		out[id] = vals[i] != nil
	}
	return out, nil
}

// Touch refreshes the user's presence key.
func (p *RedisProvider) Touch(ctx context.Context, userID string) error {
	return p.client.Set(ctx, keyPrefix+userID, time.Now().UTC().Format(time.RFC3339), p.ttl).Err()
}

// Close releases the client.
func (p *RedisProvider) Close() error {
	return p.client.Close()
}
