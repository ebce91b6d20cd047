package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/scoring"
)

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Resume, error)
	// ListRanked returns a batch's resumes by score, highest first.
	ListRanked(ctx context.Context, companyID, batchID uuid.UUID) ([]models.Resume, error)
	// CountByVerdict aggregates a single batch, or the whole company when batchID is nil.
	CountByVerdict(ctx context.Context, companyID uuid.UUID, batchID *uuid.UUID) (models.Stats, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&resume).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find resume: %w", translate(err))
	}
	return &resume, nil
}

// ListRanked and CountByVerdict need Postgres and have no unit tests. repotest mirrors
// their ordering and grouping for service and handler tests.
func (r *resumeRepository) ListRanked(ctx context.Context, companyID, batchID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Omit("raw_text").
		Where("company_id = ? AND batch_id = ?", companyID, batchID).
		Order("score DESC").
		Order("created_at ASC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

type verdictCount struct {
	Verdict scoring.Verdict
	Count   int64
}

func (r *resumeRepository) CountByVerdict(ctx context.Context, companyID uuid.UUID, batchID *uuid.UUID) (models.Stats, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Select("verdict, COUNT(*) AS count").
		Where("company_id = ?", companyID)
	if batchID != nil {
		query = query.Where("batch_id = ?", *batchID)
	}

	var rows []verdictCount
	if err := query.Group("verdict").Scan(&rows).Error; err != nil {
		return models.Stats{}, fmt.Errorf("failed to count resumes: %w", err)
	}

	var stats models.Stats
	for _, row := range rows {
		stats.Add(row.Verdict, row.Count)
	}
	return stats, nil
}
