package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch groups the resumes submitted for one hiring round.
type Batch struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Role        string    `gorm:"type:text;not null" json:"role"`
	CreatedByID uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now();index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}
