package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/middleware"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/services"
)

var validate = validator.New()

// httpStatus maps service and repository errors onto response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrBatchNotFound), errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidFile), errors.Is(err, auth.ErrPasswordTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// validationMessage returns the first failed rule as "field: tag".
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}

func identity(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return auth.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func parseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid %s format", label))
	}
	return id, nil
}
