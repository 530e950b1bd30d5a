package handlers

import (
	"errors"

	"agents-registry/pkg/models"

	"github.com/gofiber/fiber/v2"
)

// HTTPError sends a JSON error response with consistent format
func HTTPError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps the discovery error taxonomy onto HTTP statuses
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return HTTPError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, models.ErrInvalidArgument):
		return HTTPError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrRateLimited):
		return HTTPError(c, fiber.StatusTooManyRequests, "too many requests")
	case errors.Is(err, models.ErrStoreUnavailable):
		return HTTPError(c, fiber.StatusServiceUnavailable, "store unavailable")
	default:
		return HTTPError(c, fiber.StatusInternalServerError, "internal error")
	}
}
