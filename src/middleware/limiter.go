package middleware

import (
	"fmt"

	"mediaarchive/src/config"
	"mediaarchive/src/model"
	"mediaarchive/src/redis"
	"mediaarchive/src/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/sirupsen/logrus"
)

// NewRateLimiterMiddleware limits failed requests per user or client IP with a
// sliding window. Counters live in Redis when a client is given and in
// process memory otherwise. It returns nil when rate limiting is disabled.
func NewRateLimiterMiddleware(redisClient *redis.RedisClient, rateLimitConfig *config.RateLimiterConfig) fiber.Handler {
	if rateLimitConfig == nil || !rateLimitConfig.Enabled {
		logrus.Info("Rate limiter disabled")
		return nil
	}

	var store fiber.Storage
	if redisClient != nil {
		// Reuse the existing Redis connection
		store = redisstorage.NewFromConnection(redisClient.GetClient())
	} else {
		logrus.Info("Rate limiter using in-memory storage")
	}

	// Fiber v2 doesn't support dynamic MaxFunc/ExpirationFunc, so we use single configuration
	maxRequests := rateLimitConfig.AuthMax
	if rateLimitConfig.DefaultMax > maxRequests {
		maxRequests = rateLimitConfig.DefaultMax
	}

	windowDuration := rateLimitConfig.AuthWindow
	if rateLimitConfig.DefaultWindow > windowDuration {
		windowDuration = rateLimitConfig.DefaultWindow
	}

	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: windowDuration,
		KeyGenerator: func(c *fiber.Ctx) string {
			if user, ok := c.Locals("user").(*model.User); ok {
				return fmt.Sprintf("rate_limit:user:%s", user.ID)
			}
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				return fmt.Sprintf("rate_limit:ip:%s", forwardedFor)
			}
			if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
				return fmt.Sprintf("rate_limit:ip:%s", cfIP)
			}
			return fmt.Sprintf("rate_limit:ip:%s", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(response.Common{
					Code:    fiber.StatusTooManyRequests,
					Status:  "error",
					Message: "Too many requests. Please try again later.",
				})
		},
		Storage:                store,
		LimiterMiddleware:      limiter.SlidingWindow{},
		SkipSuccessfulRequests: true,
	})
}
