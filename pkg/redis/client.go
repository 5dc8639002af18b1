// Package redis wraps the go-redis client used for the presigned-URL cache
// and the health probe.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis client with optional logger.
type Client struct {
	*redis.Client
	logger *zap.Logger
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis client connected", zap.String("addr", addr))
	return &Client{Client: rdb, logger: logger}, nil
}

// GetCached returns the cached value for key, or "" on miss or error.
func (c *Client) GetCached(ctx context.Context, key string) string {
	v, err := c.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return v
}

// SetCached stores value under key with a TTL; failures are logged, not fatal.
func (c *Client) SetCached(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.Set(ctx, key, value, ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
