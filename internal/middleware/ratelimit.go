package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/response"
)

const rateLimitWindow = time.Minute

// RateLimiter is a fixed one-minute window counter per client IP, stored in
// Redis so every data service replica shares the same budget.
type RateLimiter struct {
	rdb   *redis.Client
	limit int
	keys  *config.CacheKeyStruct
	log   zerolog.Logger
	now   func() time.Time
}

// NewRateLimiter allows limit requests per minute per client. A nil client or
// a non-positive limit disables limiting.
func NewRateLimiter(rdb *redis.Client, limit int, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:   rdb,
		limit: limit,
		keys:  config.NewCacheKeyStruct(),
		log:   log.With().Str("component", "rate_limiter").Logger(),
		now:   time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Requests pass when Redis cannot be reached.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		now := rl.now()
		key := rl.keys.RateLimitKey(c.ClientIP(), now.Unix()/int64(rateLimitWindow.Seconds()))

		count, err := rl.hit(c.Request.Context(), key)
		if err != nil {
			rl.log.Warn().Err(err).Str("key", key).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.limit {
			c.Header("Retry-After", strconv.Itoa(retryAfter(now)))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// hit increments the window counter and makes sure it expires with the window.
func (rl *RateLimiter) hit(ctx context.Context, key string) (int64, error) {
	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// retryAfter is the number of whole seconds until the next window opens.
func retryAfter(now time.Time) int {
	window := int64(rateLimitWindow.Seconds())
	return int(window - now.Unix()%window)
}
