package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/logger"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/services"
)

type UploadHandler struct {
	intake      services.IntakeService
	maxFileSize int64
}

func NewUploadHandler(intake services.IntakeService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		intake:      intake,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /resume/upload with a multipart "resume" file and a "batchId" field.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("resume")
	if err != nil || file == nil {
		return errorJSON(c, fiber.StatusBadRequest, "No file uploaded")
	}

	rawBatchID := c.FormValue("batchId")
	if rawBatchID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "batchId is required")
	}
	batchID, err := uuid.Parse(rawBatchID)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid batchId format")
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		return errorJSON(c, fiber.StatusInternalServerError, "Upload failed")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("failed to read uploaded file")
		return errorJSON(c, fiber.StatusInternalServerError, "Upload failed")
	}

	resume, err := h.intake.Ingest(c.UserContext(), id, batchID, services.Upload{
		Filename: file.Filename,
		Data:     data,
	})
	if err != nil {
		status := httpStatus(err)
		switch status {
		case fiber.StatusNotFound:
			return errorJSON(c, status, "Batch not found")
		case fiber.StatusBadRequest:
			return errorJSON(c, status, err.Error())
		}
		log.Error().Err(err).Str("filename", logger.TruncateForLog(file.Filename, 80)).Msg("upload failed")
		return errorJSON(c, fiber.StatusInternalServerError, "Upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"resume":  models.NewResumeResponse(resume, false),
	})
}
