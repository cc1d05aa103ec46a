package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the redis connection with graceful degradation: when no
// address is configured or the ping fails, rate limiting silently falls
// back to the in-memory token bucket.
type RedisClient struct {
	client  *redis.Client
	enabled bool
	addr    string
}

// NewRedisClient connects to redis at addr, or returns a disabled client
// when addr is empty.
func NewRedisClient(addr string) *RedisClient {
	if addr == "" {
		slog.Info("redis not configured, rate limiting uses in-memory fallback")
		return &RedisClient{enabled: false}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis ping failed, rate limiting uses in-memory fallback", "addr", addr, "error", err)
		return &RedisClient{enabled: false, addr: addr}
	}

	slog.Info("redis connected", "addr", addr)
	return &RedisClient{client: client, enabled: true, addr: addr}
}

// Client returns the underlying redis client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// IsEnabled reports whether redis is connected and usable.
func (r *RedisClient) IsEnabled() bool {
	return r.enabled
}

// HealthCheck pings redis.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if !r.enabled {
		return fmt.Errorf("redis is disabled")
	}
	return r.client.Ping(ctx).Err()
}

// Close closes the redis connection.
func (r *RedisClient) Close() error {
	if r.enabled && r.client != nil {
		return r.client.Close()
	}
	return nil
}
