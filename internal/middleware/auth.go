// Package middleware provides Fiber handlers for authentication and role gating.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/models"
)

const identityKey = "identity"

// RequireAuth validates the Bearer token and stores the caller's identity in Locals.
func RequireAuth(validator auth.TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Unauthorized")
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "Unauthorized")
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected bearer token")
			return unauthorized(c, "Invalid or expired token")
		}

		SetIdentity(c, claims.Identity())
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok || identity.Role == "" {
			return unauthorized(c, "Unauthorized")
		}

		for _, role := range allowed {
			if identity.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}
}

func GetIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

// SetIdentity stores the caller identity read back by GetIdentity.
func SetIdentity(c *fiber.Ctx, identity auth.Identity) {
	c.Locals(identityKey, identity)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}
