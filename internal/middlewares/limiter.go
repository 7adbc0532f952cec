package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
	Message string
}

// NewRateLimiter limits requests per transport peer address. Forwarding
// headers are client controlled and never part of the key. It returns nil
// when Max is zero.
func NewRateLimiter(config RateLimitConfig) fiber.Handler {
	if config.Max <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Window,
		Storage:    config.Storage,
		KeyGenerator: func(ctx *fiber.Ctx) string {
			return "login:" + ctx.IP()
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": config.Message,
			})
		},
	})
}
