package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// ScanRateLimiter throttles scan submissions per station IP with a Redis
// counter window. A runaway scanner (stuck trigger, replay loop) gets a 429
// instead of hammering the store. Fails open if Redis is down; rate limiting
// must never block a working door.
type ScanRateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewScanRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *ScanRateLimiter {
	return &ScanRateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Intercept is a route middleware for the PocketBase router.
func (r *ScanRateLimiter) Intercept(e *core.RequestEvent) error {
	ctx := e.Request.Context()
	key := fmt.Sprintf("ratelimit:scan:%s", e.RealIP())

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return e.Next()
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	if count > int64(r.limit) {
		return e.JSON(http.StatusTooManyRequests, map[string]string{
			"error": "Too many scans. Slow down.",
		})
	}

	return e.Next()
}
