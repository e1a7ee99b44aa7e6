package handler

import (
	"go-pos-ledger/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps the error taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindPersistence:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  apperr.KindOf(err).String(),
	})
}
