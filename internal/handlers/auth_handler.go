package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/services"
)

type AuthHandler struct {
	accounts services.AccountService
}

func NewAuthHandler(accounts services.AccountService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	resp, err := h.accounts.Register(c.UserContext(), req)
	if err != nil {
		status := httpStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("registration failed")
			return errorJSON(c, status, "Registration failed")
		}
		return errorJSON(c, status, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	resp, err := h.accounts.Login(c.UserContext(), req)
	if err != nil {
		status := httpStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("login failed")
			return errorJSON(c, status, "Login failed")
		}
		return errorJSON(c, status, err.Error())
	}

	return c.JSON(resp)
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.Me(c.UserContext(), id)
	if err != nil {
		return errorJSON(c, httpStatus(err), "User not found")
	}
	return c.JSON(user)
}

// HandleCreateUser handles POST /users. Admin only.
func (h *AuthHandler) HandleCreateUser(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	user, err := h.accounts.CreateUser(c.UserContext(), id.CompanyID, req)
	if err != nil {
		status := httpStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to create user")
			return errorJSON(c, status, "Failed to create user")
		}
		return errorJSON(c, status, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}
