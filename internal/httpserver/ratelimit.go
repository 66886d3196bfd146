package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/cache"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter allows maxRequests per window for each client, method and
// route, counted in Redis so the limit holds across replicas. When Redis is
// unreachable requests pass and the failure is logged.
func RateLimiter(rc *cache.RedisClient, maxRequests int, window time.Duration, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		count, err := rc.Client.Incr(ctx, key).Result()
		if err != nil {
			log.Error("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rc.Client.Expire(ctx, key, window)
		}

		ttl, err := rc.Client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if int(count) > maxRequests {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			delivery.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
