package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/middleware"
	"tiendapesca/internal/models"
)

// respondError translates a service error into the HTTP response. Typed
// errors carry their own status; anything else is a 500.
func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"code":    code,
		"message": err.Error(),
	})
}

// respondValidationErrors flattens validator errors into a field->message map.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}

// currentUser returns the user placed in the context by AuthRequired.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.UserKey).(*models.User)
	return user
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.CodeValidation, "invalid %s: %q", name, raw)
	}
	return uint(value), nil
}
