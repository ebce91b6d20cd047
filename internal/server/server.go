// Package server wires handlers and middleware into the Fiber application.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/handlers"
	"hiringdesk/resume-intake/internal/middleware"
	"hiringdesk/resume-intake/internal/models"
)

type Options struct {
	BodyLimit     int
	AccessLog     bool
	Tokens        auth.TokenValidator
	AuthHandler   *handlers.AuthHandler
	BatchHandler  *handlers.BatchHandler
	UploadHandler *handlers.UploadHandler
	ResultHandler *handlers.ResultHandler
}

func New(opts Options) *fiber.App {
	bodyLimit := opts.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:      "Resume Intake API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/auth/register", opts.AuthHandler.HandleRegister)
	api.Post("/auth/login", opts.AuthHandler.HandleLogin)

	requireAuth := middleware.RequireAuth(opts.Tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleRecruiter)

	api.Get("/auth/me", requireAuth, opts.AuthHandler.HandleMe)
	api.Post("/users", requireAuth, adminOnly, opts.AuthHandler.HandleCreateUser)

	api.Post("/batch", requireAuth, staff, opts.BatchHandler.HandleCreate)
	api.Get("/batch", requireAuth, staff, opts.BatchHandler.HandleList)
	api.Get("/batch/:batchId/results", requireAuth, staff, opts.BatchHandler.HandleResults)
	api.Get("/batch/:batchId/stats", requireAuth, staff, opts.BatchHandler.HandleStats)
	api.Get("/stats", requireAuth, staff, opts.ResultHandler.HandleStats)
	api.Post("/resume/upload", requireAuth, staff, opts.UploadHandler.HandleUpload)
	api.Get("/resume/:id", requireAuth, staff, opts.ResultHandler.HandleGetResume)
	api.Post("/score", requireAuth, staff, opts.ResultHandler.HandleScorePreview)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Intake API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
				"GET /api/v1/auth/me",
				"POST /api/v1/users",
				"POST /api/v1/batch",
				"GET /api/v1/batch",
				"GET /api/v1/batch/:batchId/results",
				"GET /api/v1/batch/:batchId/stats",
				"GET /api/v1/stats",
				"POST /api/v1/resume/upload",
				"GET /api/v1/resume/:id",
				"POST /api/v1/score",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
