package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aromakopi/pos-backend/internal/apperror"
	"github.com/aromakopi/pos-backend/internal/response"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig defines rate limiting rules
type RateLimiterConfig struct {
	Prefix      string        // Key namespace, so several limiters can share Redis
	MaxRequests int           // Maximum requests allowed in the window
	Window      time.Duration // Counting window
	BlockTime   time.Duration // How long an IP stays blocked after exceeding the limit
}

// RateLimiter provides IP-based rate limiting using Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimiterConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	if config.Prefix == "" {
		config.Prefix = "ratelimit"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Middleware rejects callers over the limit with 429 and a Retry-After header.
// Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := c.ClientIP()

		blockedFor, err := rl.BlockedFor(ctx, clientIP)
		if err == nil && blockedFor > 0 {
			rl.tooMany(c, blockedFor)
			return
		}

		allowed, retryAfter, err := rl.CheckLimit(ctx, clientIP)
		if err != nil {
			logger.Log.Warn("Rate limiter unavailable, allowing request",
				zap.String("ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			logger.Log.Warn("Rate limit exceeded",
				zap.String("ip", clientIP),
				zap.String("path", c.FullPath()),
			)
			rl.tooMany(c, retryAfter)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) tooMany(c *gin.Context, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	response.Error(c, &apperror.Error{
		Kind:    apperror.KindTooManyRequests,
		Code:    apperror.CodeTooManyRequests,
		Message: "Too many requests. Please try again later.",
	})
}

// CheckLimit counts the request in a fixed window. When the count passes
// MaxRequests the IP is blocked for BlockTime.
func (rl *RateLimiter) CheckLimit(ctx context.Context, ip string) (bool, time.Duration, error) {
	key := fmt.Sprintf("%s:%s", rl.config.Prefix, ip)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	// First hit opens the window
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(rl.config.MaxRequests) {
		return true, 0, nil
	}

	if rl.config.BlockTime > 0 {
		if err := rl.redis.Set(ctx, rl.blockKey(ip), 1, rl.config.BlockTime).Err(); err != nil {
			return false, 0, err
		}
		return false, rl.config.BlockTime, nil
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = rl.config.Window
	}
	return false, ttl, nil
}

// BlockedFor returns how long the IP remains blocked, zero if it is not.
func (rl *RateLimiter) BlockedFor(ctx context.Context, ip string) (time.Duration, error) {
	ttl, err := rl.redis.TTL(ctx, rl.blockKey(ip)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Unblock lifts a block and resets the counter for ip.
func (rl *RateLimiter) Unblock(ctx context.Context, ip string) error {
	return rl.redis.Del(ctx, rl.blockKey(ip), fmt.Sprintf("%s:%s", rl.config.Prefix, ip)).Err()
}

func (rl *RateLimiter) blockKey(ip string) string {
	return fmt.Sprintf("%s:block:%s", rl.config.Prefix, ip)
}
