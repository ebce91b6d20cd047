package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/services"
)

type ResultHandler struct {
	resumeRepo repositories.ResumeRepository
	stats      services.StatsService
	intake     services.IntakeService
}

func NewResultHandler(
	resumeRepo repositories.ResumeRepository,
	stats services.StatsService,
	intake services.IntakeService,
) *ResultHandler {
	return &ResultHandler{
		resumeRepo: resumeRepo,
		stats:      stats,
		intake:     intake,
	}
}

// HandleGetResume handles GET /resume/:id
func (h *ResultHandler) HandleGetResume(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	resumeID, err := parseUUIDParam(c, "id", "resume ID")
	if err != nil {
		return err
	}

	resume, err := h.resumeRepo.FindByID(c.UserContext(), id.CompanyID, resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Resume not found")
		}
		log.Error().Err(err).Msg("failed to load resume")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch resume")
	}

	return c.JSON(models.NewResumeResponse(resume, true))
}

// HandleStats handles GET /stats for the caller's whole company.
func (h *ResultHandler) HandleStats(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.CompanyStats(c.UserContext(), id.CompanyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute company stats")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch stats")
	}

	return c.JSON(stats)
}

// HandleScorePreview handles POST /score. Nothing is stored.
func (h *ResultHandler) HandleScorePreview(c *fiber.Ctx) error {
	var req models.ScorePreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	return c.JSON(h.intake.Preview(req.Text))
}
