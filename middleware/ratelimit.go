package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/util"
)

const (
	defaultRateLimit  = 5
	defaultRateWindow = 15 * time.Minute

	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
)

var errRateLimited = errors.New("rate limit exceeded")

// RateLimitConfig bounds requests per client IP and path. Zero values fall
// back to 5 requests per 15 minutes.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateWindow
	}
	return cfg
}

func rateLimitKey(endpoint, clientIP string) string {
	return "ratelimit:" + endpoint + ":" + clientIP
}

// RateLimiter guards login and signup with a fixed window counter in Redis.
// Without Redis, or when Redis fails, requests are let through.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		ip, path := c.ClientIP(), c.Request.URL.Path

		count, err := hitWindow(c.Request.Context(), rateLimitKey(path, ip), cfg.Window)
		if err != nil {
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventSuspiciousActivity,
				IP:        ip,
				Message:   fmt.Sprintf("Rate limit check failed: %v", err),
			})
			c.Next()
			return
		}
		if count < 0 {
			c.Next()
			return
		}

		remaining := int64(cfg.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header(headerRateLimit, strconv.Itoa(cfg.Limit))
		c.Header(headerRateRemaining, strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Limit) {
			util.LogRateLimitExceeded(ip, path)
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: errRateLimited,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// hitWindow counts one request against key and returns the count inside the
// current window, or -1 when Redis is not configured.
func hitWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return -1, nil
	}

	pipe := rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val(), nil
}

// ResetRateLimit clears the counter for a client on an endpoint.
func ResetRateLimit(ctx context.Context, clientIP, endpoint string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return errors.New("redis not available")
	}
	return rdb.Del(ctx, rateLimitKey(endpoint, clientIP)).Err()
}
