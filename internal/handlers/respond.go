package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"movieweb/internal/apperr"
	"movieweb/internal/middleware"
	"movieweb/internal/services"
)

// userID returns the authenticated user's ID placed in Locals by the
// JWT middleware.
func userID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.UserIDKey).(uint)
	return id
}

func apiMode(c *fiber.Ctx) bool {
	on, _ := c.Locals(middleware.APIModeKey).(bool)
	return on
}

func statusFor(err error) int {
	if errors.Is(err, services.ErrInvalidCredentials) {
		return fiber.StatusUnauthorized
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindDuplicate:
		return fiber.StatusConflict
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindExternalLookup:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError renders a failure in the presentation mode selected at
// route registration: structured error for /api groups, a flash-style
// notice everywhere else. Unclassified errors never leak their cause
// to the client.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := apperr.Message(err)
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}
	if apiMode(c) {
		return c.Status(status).JSON(fiber.Map{
			"error": fiber.Map{
				"kind":    apperr.KindOf(err).String(),
				"message": message,
			},
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"notice":   message,
		"category": "danger",
	})
}

// respondValidation renders field-level validation failures from the
// request-struct tags.
func respondValidation(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return respondError(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
