package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary: every user, batch and resume belongs to exactly one.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
