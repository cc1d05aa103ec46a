package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/clinsight/bleedrisk/internal/monitoring"
)

// Config holds rate limiter settings.
type Config struct {
	RequestsPerMin int
	Burst          int
}

// DefaultConfig returns the shipped rate-limit settings.
func DefaultConfig() Config {
	return Config{RequestsPerMin: 60, Burst: 10}
}

// Result is the outcome of one rate-limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter throttles assessment requests per client IP, using a redis
// sliding window when redis is available and an in-memory token bucket
// otherwise.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	fallback   map[string]*rate.Limiter
	fallbackMu sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter over the given redis client (which may
// be disabled).
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		redisClient: redisClient,
		config:      config,
		metrics:     metrics,
		fallback:    make(map[string]*rate.Limiter),
		stop:        make(chan struct{}),
	}
	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.Client())
	}
	go rl.cleanupFallback()
	return rl
}

// Stop terminates the fallback cleanup loop. Idempotent.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// AllowIP checks the per-minute limit for one client IP.
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)

	if rl.redisClient.IsEnabled() && rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key)
		if err != nil {
			slog.Warn("redis rate limit check failed, using fallback", "key", key, "error", err)
			return rl.allowFallback(key), nil
		}
		return result, nil
	}
	return rl.allowFallback(key), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   rl.config.RequestsPerMin,
		Burst:  rl.config.RequestsPerMin,
		Period: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check: %w", err)
	}
	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (rl *RateLimiter) allowFallback(key string) *Result {
	rl.fallbackMu.Lock()
	limiter, ok := rl.fallback[key]
	if !ok {
		rps := rate.Limit(float64(rl.config.RequestsPerMin) / 60.0)
		burst := rl.config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rps, burst)
		rl.fallback[key] = limiter
	}
	rl.fallbackMu.Unlock()

	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     rl.config.RequestsPerMin,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Minute),
	}
	if !allowed {
		result.RetryAfter = time.Until(result.ResetAt)
	}
	return result
}

// cleanupFallback drops idle in-memory limiters so the map cannot grow
// unbounded across many client IPs.
func (rl *RateLimiter) cleanupFallback() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.fallbackMu.Lock()
			for key, limiter := range rl.fallback {
				if limiter.Tokens() >= float64(rl.config.Burst) {
					delete(rl.fallback, key)
				}
			}
			rl.fallbackMu.Unlock()
		}
	}
}
