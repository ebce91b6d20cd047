package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hiringdesk/resume-intake/internal/scoring"
)

// Resume is one uploaded document together with its extracted text and score.
type Resume struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_resumes_batch_score,priority:1" json:"batch_id"`
	Filename        string          `gorm:"type:text" json:"filename"`
	StorageKey      string          `gorm:"type:text" json:"-"`
	RawText         string          `gorm:"type:text" json:"raw_text"`
	Score           int             `gorm:"not null;default:0;index:idx_resumes_batch_score,priority:2,sort:desc" json:"score"`
	Verdict         scoring.Verdict `gorm:"type:text;not null;index" json:"verdict"`
	KeywordScore    int             `gorm:"not null;default:0" json:"keyword_score"`
	ExperienceScore int             `gorm:"not null;default:0" json:"experience_score"`
	TechScore       int             `gorm:"not null;default:0" json:"tech_score"`
	QualityScore    int             `gorm:"not null;default:0" json:"quality_score"`
	AutoHireVerdict scoring.Verdict `gorm:"type:text" json:"auto_hire_verdict"`
	Reasons         datatypes.JSON  `gorm:"type:jsonb" json:"reasons"`
	CreatedAt       time.Time       `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"type:timestamp;default:now()" json:"updated_at"`

	Batch Batch `gorm:"foreignKey:BatchID" json:"-"`
}

func (Resume) TableName() string {
	return "resumes"
}

// ApplyScore copies a scorer result and an auto-hire decision onto the record.
func (r *Resume) ApplyScore(result scoring.Result, decision scoring.AutoHireResult) error {
	if !result.Verdict.Valid() || !decision.Verdict.Valid() {
		return fmt.Errorf("unknown verdict: score %q, auto-hire %q", result.Verdict, decision.Verdict)
	}

	reasons, err := json.Marshal(decision.Reasons)
	if err != nil {
		return err
	}

	r.Score = result.Score
	r.Verdict = result.Verdict
	r.KeywordScore = result.Breakdown.Keywords
	r.ExperienceScore = result.Breakdown.Experience
	r.TechScore = result.Breakdown.Tech
	r.QualityScore = result.Breakdown.Quality
	r.AutoHireVerdict = decision.Verdict
	r.Reasons = datatypes.JSON(reasons)
	return nil
}

func (r *Resume) Breakdown() scoring.Breakdown {
	return scoring.Breakdown{
		Keywords:   r.KeywordScore,
		Experience: r.ExperienceScore,
		Tech:       r.TechScore,
		Quality:    r.QualityScore,
	}
}

// ReasonList decodes the stored reasons; a missing or malformed column yields nil.
func (r *Resume) ReasonList() []string {
	if len(r.Reasons) == 0 {
		return nil
	}
	var reasons []string
	if err := json.Unmarshal(r.Reasons, &reasons); err != nil {
		return nil
	}
	return reasons
}
