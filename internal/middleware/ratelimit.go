package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
)

// RateLimiter is a fixed-window per-IP limiter whose counters live in Redis,
// so every server instance shares one budget per client.
type RateLimiter struct {
	rdb      *redis.Client
	scope    string
	rate     int           // Requests per window
	interval time.Duration // Window length
	log      zerolog.Logger
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter (e.g., 120 requests per minute).
func NewRateLimiter(rdb *redis.Client, scope string, rate int, interval time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		scope:    scope,
		rate:     rate,
		interval: interval,
		log:      log.With().Str("component", "rate_limiter").Logger(),
		now:      time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// A Redis failure lets the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		window := rl.now().UnixNano() / int64(rl.interval)
		key := config.CacheKey.RateLimitKey(rl.scope, c.ClientIP(), window)

		ctx := c.Request.Context()
		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.interval)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit counter unavailable")
			c.Next()
			return
		}

		count := incr.Val()
		remaining := max(int64(rl.rate)-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.rate) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
