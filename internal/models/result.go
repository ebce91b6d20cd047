package models

import (
	"time"

	"hiringdesk/resume-intake/internal/scoring"
)

type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	Name        string `json:"name" validate:"required,min=1"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=admin recruiter"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type CreateBatchRequest struct {
	Role string `json:"role"`
}

type ScorePreviewRequest struct {
	Text string `json:"text"`
}

type ScorePreviewResponse struct {
	Score     int                    `json:"score"`
	Verdict   scoring.Verdict        `json:"verdict"`
	Breakdown scoring.Breakdown      `json:"breakdown"`
	AutoHire  scoring.AutoHireResult `json:"auto_hire"`
}

// ResumeResponse is the API view of a stored resume. Raw text is left out of listings.
type ResumeResponse struct {
	ID              string            `json:"id"`
	BatchID         string            `json:"batch_id"`
	Filename        string            `json:"filename"`
	Score           int               `json:"score"`
	Verdict         scoring.Verdict   `json:"verdict"`
	Breakdown       scoring.Breakdown `json:"breakdown"`
	AutoHireVerdict scoring.Verdict   `json:"auto_hire_verdict,omitempty"`
	Reasons         []string          `json:"reasons"`
	RawText         string            `json:"raw_text,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func NewResumeResponse(r *Resume, withText bool) ResumeResponse {
	reasons := r.ReasonList()
	if reasons == nil {
		reasons = []string{}
	}

	resp := ResumeResponse{
		ID:              r.ID.String(),
		BatchID:         r.BatchID.String(),
		Filename:        r.Filename,
		Score:           r.Score,
		Verdict:         r.Verdict,
		Breakdown:       r.Breakdown(),
		AutoHireVerdict: r.AutoHireVerdict,
		Reasons:         reasons,
		CreatedAt:       r.CreatedAt,
	}
	if withText {
		resp.RawText = r.RawText
	}
	return resp
}

type BatchResultsResponse struct {
	BatchID       string           `json:"batch_id"`
	Role          string           `json:"role"`
	RankedResumes []ResumeResponse `json:"rankedResumes"`
}

// Stats holds per-verdict totals for a batch or a whole company.
type Stats struct {
	Total  int64 `json:"total"`
	Hire   int64 `json:"hire"`
	Maybe  int64 `json:"maybe"`
	Reject int64 `json:"reject"`
}

func (s *Stats) Add(verdict scoring.Verdict, count int64) {
	switch verdict {
	case scoring.VerdictHire:
		s.Hire += count
	case scoring.VerdictMaybe:
		s.Maybe += count
	case scoring.VerdictReject:
		s.Reject += count
	}
	s.Total += count
}
