package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiringdesk/resume-intake/internal/models"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Batch, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Batch, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

// FindByID only returns batches owned by companyID.
func (r *batchRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&batch).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find batch: %w", translate(err))
	}
	return &batch, nil
}

func (r *batchRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}
