package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/services"
)

type BatchHandler struct {
	batchRepo  repositories.BatchRepository
	resumeRepo repositories.ResumeRepository
	stats      services.StatsService
}

func NewBatchHandler(
	batchRepo repositories.BatchRepository,
	resumeRepo repositories.ResumeRepository,
	stats services.StatsService,
) *BatchHandler {
	return &BatchHandler{
		batchRepo:  batchRepo,
		resumeRepo: resumeRepo,
		stats:      stats,
	}
}

// HandleCreate handles POST /batch
func (h *BatchHandler) HandleCreate(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req models.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		return errorJSON(c, fiber.StatusBadRequest, "role is required")
	}

	now := time.Now()
	batch := &models.Batch{
		ID:          uuid.New(),
		CompanyID:   id.CompanyID,
		Role:        role,
		CreatedByID: id.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.batchRepo.Create(c.UserContext(), batch); err != nil {
		log.Error().Err(err).Msg("failed to create batch")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create batch")
	}

	return c.Status(fiber.StatusCreated).JSON(batch)
}

// HandleList handles GET /batch, newest first.
func (h *BatchHandler) HandleList(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	batches, err := h.batchRepo.ListByCompany(c.UserContext(), id.CompanyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list batches")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list batches")
	}
	if batches == nil {
		batches = []models.Batch{}
	}

	return c.JSON(batches)
}

// HandleResults handles GET /batch/:batchId/results
func (h *BatchHandler) HandleResults(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	batchID, err := parseUUIDParam(c, "batchId", "batch ID")
	if err != nil {
		return err
	}

	batch, err := h.batchRepo.FindByID(c.UserContext(), id.CompanyID, batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Batch not found")
		}
		log.Error().Err(err).Msg("failed to load batch")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch batch results")
	}

	resumes, err := h.resumeRepo.ListRanked(c.UserContext(), id.CompanyID, batchID)
	if err != nil {
		log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to fetch batch results")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch batch results")
	}

	ranked := make([]models.ResumeResponse, 0, len(resumes))
	for i := range resumes {
		ranked = append(ranked, models.NewResumeResponse(&resumes[i], false))
	}

	return c.JSON(models.BatchResultsResponse{
		BatchID:       batch.ID.String(),
		Role:          batch.Role,
		RankedResumes: ranked,
	})
}

// HandleStats handles GET /batch/:batchId/stats
func (h *BatchHandler) HandleStats(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	batchID, err := parseUUIDParam(c, "batchId", "batch ID")
	if err != nil {
		return err
	}

	if _, err := h.batchRepo.FindByID(c.UserContext(), id.CompanyID, batchID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Batch not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch batch stats")
	}

	stats, err := h.stats.BatchStats(c.UserContext(), id.CompanyID, batchID)
	if err != nil {
		log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to compute batch stats")
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch batch stats")
	}

	return c.JSON(stats)
}
