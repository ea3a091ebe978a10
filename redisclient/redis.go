package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/matejviezan93/bridge-ai-chain/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client for the distributed rate limiter.
type Client struct {
	c *redis.Client
}

// New creates a Redis client from the provided config. Returns an error
// if the Redis URL cannot be parsed.
func New(cfg *config.Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	r := redis.NewClient(opt)
	return &Client{c: r}, nil
}

// Ping verifies connectivity, used once at startup.
func (r *Client) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.c.Ping(ctx).Err()
}

// IncrWithExpire increments key and, if this call created the key, sets
// its expiry to window. Returns the post-increment count.
func (r *Client) IncrWithExpire(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.c.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.c.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Close releases the underlying connection pool.
func (r *Client) Close() error {
	return r.c.Close()
}
