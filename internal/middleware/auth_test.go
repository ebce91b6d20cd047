package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/config"
	"hiringdesk/resume-intake/internal/models"
)

func newTestApp(t *testing.T, roles ...models.Role) (*fiber.App, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService(config.JWTConfig{Secret: "middleware-test-secret", ExpirationHours: 1})

	app := fiber.New()
	handlers := []fiber.Handler{RequireAuth(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(identity)
	})
	app.Get("/protected", handlers...)

	return app, tokens
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp.StatusCode, decoded
}

func token(t *testing.T, tokens *auth.TokenService, role models.Role) string {
	t.Helper()
	tok, err := tokens.GenerateToken(&models.User{ID: uuid.New(), CompanyID: uuid.New(), Role: role})
	require.NoError(t, err)
	return tok
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doRequest(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	app, tokens := newTestApp(t)

	status, body := doRequest(t, app, "Basic "+token(t, tokens, models.RoleAdmin))

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doRequest(t, app, "Bearer garbage")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["error"])
}

func TestRequireAuth_ValidToken(t *testing.T) {
	app, tokens := newTestApp(t)

	status, body := doRequest(t, app, "bearer "+token(t, tokens, models.RoleRecruiter))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "recruiter", body["role"])
}

func TestRequireRole(t *testing.T) {
	app, tokens := newTestApp(t, models.RoleAdmin)

	status, body := doRequest(t, app, "Bearer "+token(t, tokens, models.RoleRecruiter))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden", body["error"])

	status, _ = doRequest(t, app, "Bearer "+token(t, tokens, models.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	status, body := doRequest(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestRequireRole_PresetIdentity(t *testing.T) {
	preset := func(role models.Role) fiber.Handler {
		return func(c *fiber.Ctx) error {
			SetIdentity(c, auth.Identity{UserID: uuid.New(), CompanyID: uuid.New(), Role: role})
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/recruiter", preset(models.RoleRecruiter), RequireRole(models.RoleAdmin, models.RoleRecruiter), ok)
	app.Get("/blank", preset(""), RequireRole(models.RoleAdmin), ok)

	for path, want := range map[string]int{"/recruiter": fiber.StatusOK, "/blank": fiber.StatusUnauthorized} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
