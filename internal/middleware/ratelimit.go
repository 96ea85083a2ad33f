package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/cineflix-go/internal/ratelimit"
)

// HeaderUserID carries the platform user id of the caller.
const HeaderUserID = "X-User-ID"

// RateLimitConfig binds a limiter to a request key.
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	Max     int                      // advertised in X-RateLimit-Limit
	Window  time.Duration            // advertised in Retry-After
	KeyFn   func(c fiber.Ctx) string // returns the key to rate limit on
}

// NewRateLimit returns a Fiber middleware that rejects requests over budget
// with 429.
func NewRateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.KeyFn == nil {
		cfg.KeyFn = KeyByUserID
	}
	retryAfter := int(cfg.Window.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	return func(c fiber.Ctx) error {
		if cfg.Max > 0 {
			c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
		}
		if cfg.Limiter.Allow(cfg.KeyFn(c)) {
			return c.Next()
		}

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fiber.Map{
				"code":       "RATE_LIMITED",
				"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
				"retryAfter": retryAfter,
			},
		})
	}
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// KeyByUserID keys on the X-User-ID header when it holds a valid user id,
// falling back to the client IP.
func KeyByUserID(c fiber.Ctx) string {
	if id, msg := ValidateUserID(c.Get(HeaderUserID)); msg == "" {
		return ratelimit.UserKey(id)
	}
	return KeyByIP(c)
}
