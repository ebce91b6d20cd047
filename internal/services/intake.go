package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/logger"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/scoring"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrInvalidFile   = errors.New("invalid file")
)

// maxLoggedFilename caps client-supplied file names in log lines.
const maxLoggedFilename = 80

// Upload is one resume file as received from the client.
type Upload struct {
	Filename string
	Data     []byte
}

type IntakeService interface {
	// Ingest extracts, scores and stores one resume in a batch owned by the caller's company.
	Ingest(ctx context.Context, identity auth.Identity, batchID uuid.UUID, upload Upload) (*models.Resume, error)
	// Preview scores text without storing anything.
	Preview(text string) models.ScorePreviewResponse
}

type intakeService struct {
	batchRepo   repositories.BatchRepository
	resumeRepo  repositories.ResumeRepository
	storage     StorageService
	pdfParser   PDFParserService
	stats       StatsService
	maxFileSize int64
}

func NewIntakeService(
	batchRepo repositories.BatchRepository,
	resumeRepo repositories.ResumeRepository,
	storage StorageService,
	pdfParser PDFParserService,
	stats StatsService,
	maxFileSize int64,
) IntakeService {
	return &intakeService{
		batchRepo:   batchRepo,
		resumeRepo:  resumeRepo,
		storage:     storage,
		pdfParser:   pdfParser,
		stats:       stats,
		maxFileSize: maxFileSize,
	}
}

func (s *intakeService) Ingest(ctx context.Context, identity auth.Identity, batchID uuid.UUID, upload Upload) (*models.Resume, error) {
	if _, err := s.batchRepo.FindByID(ctx, identity.CompanyID, batchID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}

	if ext := strings.ToLower(filepath.Ext(upload.Filename)); ext != ".pdf" {
		return nil, fmt.Errorf("%w: unsupported file extension %q", ErrInvalidFile, ext)
	}
	if s.maxFileSize > 0 && int64(len(upload.Data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file too large, max size %d bytes", ErrInvalidFile, s.maxFileSize)
	}

	rawText, err := s.pdfParser.ExtractTextFromBytes(upload.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	result := scoring.ScoreSalesFresher(rawText)
	decision := scoring.AutoHireDecision(float64(result.Score), rawText)

	key, err := s.storage.Save(ctx, upload.Filename, upload.Data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resume := &models.Resume{
		ID:         uuid.New(),
		CompanyID:  identity.CompanyID,
		BatchID:    batchID,
		Filename:   upload.Filename,
		StorageKey: key,
		RawText:    rawText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := resume.ApplyScore(result, decision); err != nil {
		s.cleanup(ctx, key)
		return nil, fmt.Errorf("failed to encode reasons: %w", err)
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		s.cleanup(ctx, key)
		return nil, err
	}

	s.stats.Invalidate(ctx, identity.CompanyID, batchID)

	log.Info().
		Str("resume_id", resume.ID.String()).
		Str("batch_id", batchID.String()).
		Str("filename", logger.TruncateForLog(upload.Filename, maxLoggedFilename)).
		Int("score", resume.Score).
		Str("verdict", string(resume.Verdict)).
		Str("auto_hire", string(resume.AutoHireVerdict)).
		Msg("resume scored")

	return resume, nil
}

func (s *intakeService) Preview(text string) models.ScorePreviewResponse {
	result := scoring.ScoreSalesFresher(text)
	return models.ScorePreviewResponse{
		Score:     result.Score,
		Verdict:   result.Verdict,
		Breakdown: result.Breakdown,
		AutoHire:  scoring.AutoHireDecision(float64(result.Score), text),
	}
}

func (s *intakeService) cleanup(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to remove stored file after error")
	}
}
