package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Rate limit window

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

const loginAttemptsPrefix = "ratelimit:login:"

// LoginRateLimit allows limit attempts per client IP within window. Counters
// live in Redis; when Redis is unavailable requests are let through.
func LoginRateLimit(rdb redis.UniversalClient, limit int, window time.Duration, deny ErrorPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := loginAttemptsPrefix + c.ClientIP() // One counter per client

		// Count and (re)arm the window atomically so a counter never outlives it
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window) // Only the first attempt of a window sets the TTL
			return nil
		})
		if err != nil {
			logrus.WithError(err).Error("Failed to count login attempt")
			c.Next()
			return
		}
		attempts := incr.Val()
		if attempts > int64(limit) {
			logrus.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"attempts":  attempts,
			}).Warn("Login rate limit exceeded")
			deny(c, http.StatusTooManyRequests, "Too many login attempts. Please wait and try again.")
			return
		}
		c.Next()
	}
}
