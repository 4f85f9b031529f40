package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/metrics"
)

var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

type decision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

// NewTokenBucket rate limits requests per key.  The bucket lives in
// Redis when a client is available; without one, or when a Redis call
// fails, an in-process limiter with the same capacity and refill rate
// takes over.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}
	local := newLocalLimiter(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			now := time.Now()

			backend := "local"
			var d decision
			var err error
			if rdb != nil {
				d, err = takeRedis(c.Request().Context(), rdb, cfg, key, now)
				if err == nil {
					backend = "redis"
				} else if cfg.Debug {
					logging.Warn().Err(err).Str("key", key).Msg("rate limit redis error, using local limiter")
				}
			}
			if backend == "local" {
				d = local.take(key, now)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if !d.allowed {
				secs := int(math.Ceil(d.retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimited.WithLabelValues(backend).Inc()
				return deny(c, http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func takeRedis(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (decision, error) {
	vals, err := limiterScript.Run(ctx, rdb, []string{key},
		now.UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL/time.Second),
	).Result()
	if err != nil {
		return decision{}, err
	}
	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return decision{}, fmt.Errorf("unexpected script result %#v", vals)
	}
	return decision{
		allowed:    asInt64(arr[0]) == 1,
		remaining:  asInt64(arr[1]),
		retryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// localLimiter keeps one rate.Limiter per key and forgets keys idle for
// longer than the configured TTL.
type localLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

type localBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
	return &localLimiter{
		buckets: make(map[string]*localBucket),
		limit:   rate.Limit(cfg.RefillPerSecond()),
		burst:   cfg.Capacity,
		ttl:     cfg.TTL,
	}
}

func (l *localLimiter) take(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	if b.lim.AllowN(now, 1) {
		return decision{allowed: true, remaining: int64(b.lim.TokensAt(now))}
	}
	missing := 1 - b.lim.TokensAt(now)
	return decision{retryAfter: time.Duration(missing / float64(l.limit) * float64(time.Second))}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()
	if name := c.Param("name"); name != "" {
		route += " " + name
	}

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", userID(c), "route", route)
	}
	return strings.Join(parts, ":")
}
