package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arnold/devgrowth-api/internal/apperr"
)

// respondError maps a service error to a status code and a message a person
// can act on. Storage details stay in the server log.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var (
		ve *apperr.ValidationError
		ae *apperr.AuthError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Message,
		})
	case errors.As(err, &ae):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please sign in to continue",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}

// ErrorHandler renders framework errors (unknown routes, panics) in the same
// {"error": ...} shape as the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong, please try again"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
