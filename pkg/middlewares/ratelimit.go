// pkg/middlewares/ratelimit.go
package middleware

import (
	"math"
	"strconv"
	"strings"

	"agents-registry/pkg/interfaces"
	"agents-registry/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RateLimitMiddleware applies the fixed-window limiter to discovery routes.
// The check runs before any handler work; a rejected request never touches
// search or trending.
type RateLimitMiddleware struct {
	discovery interfaces.DiscoveryServiceInterface
	log       *utils.Logger
}

func NewRateLimitMiddleware(discovery interfaces.DiscoveryServiceInterface, log *utils.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		discovery: discovery,
		log:       log,
	}
}

// Limit returns a handler enforcing the named endpoint class budget
func (m *RateLimitMiddleware) Limit(endpoint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := m.identify(c)

		decision := m.discovery.CheckLimit(c.UserContext(), identifier, endpoint)
		if decision.Allowed {
			return c.Next()
		}

		retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		m.log.WithFields(logrus.Fields{
			"identifier": identifier,
			"endpoint":   endpoint,
			"count":      decision.CurrentCount,
		}).Info("Request rate limited")

		c.Set("Retry-After", strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":      "too many requests",
			"retryAfter": retryAfter,
		})
	}
}

// identify resolves the rate-limit identifier: the API key when one is
// presented, otherwise the client IP
func (m *RateLimitMiddleware) identify(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return "key:" + auth[7:]
	}
	if key := c.Get("X-API-Key"); key != "" {
		return "key:" + key
	}
	return "ip:" + c.IP()
}
