// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
)

// Store backs all in-memory repositories so tenant checks line up across them.
type Store struct {
	mu        sync.Mutex
	Companies map[uuid.UUID]models.Company
	Users     map[uuid.UUID]models.User
	Batches   map[uuid.UUID]models.Batch
	Resumes   map[uuid.UUID]models.Resume

	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{
		Companies: map[uuid.UUID]models.Company{},
		Users:     map[uuid.UUID]models.User{},
		Batches:   map[uuid.UUID]models.Batch{},
		Resumes:   map[uuid.UUID]models.Resume{},
	}
}

func (s *Store) UserRepo() repositories.UserRepository     { return &userRepo{s} }
func (s *Store) BatchRepo() repositories.BatchRepository   { return &batchRepo{s} }
func (s *Store) ResumeRepo() repositories.ResumeRepository { return &resumeRepo{s} }

type userRepo struct{ s *Store }

func (r *userRepo) CreateWithCompany(_ context.Context, company *models.Company, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.emailTaken(user.Email) {
		return repositories.ErrDuplicate
	}
	r.s.Companies[company.ID] = *company
	user.CompanyID = company.ID
	r.s.Users[user.ID] = *user
	return nil
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.emailTaken(user.Email) {
		return repositories.ErrDuplicate
	}
	r.s.Users[user.ID] = *user
	return nil
}

func (r *userRepo) emailTaken(email string) bool {
	for _, u := range r.s.Users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.Users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(_ context.Context, batch *models.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.Batches[batch.ID] = *batch
	return nil
}

func (r *batchRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*models.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	b, ok := r.s.Batches[id]
	if !ok || b.CompanyID != companyID {
		return nil, repositories.ErrNotFound
	}
	return &b, nil
}

func (r *batchRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var out []models.Batch
	for _, b := range r.s.Batches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type resumeRepo struct{ s *Store }

func (r *resumeRepo) Create(_ context.Context, resume *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.Resumes[resume.ID] = *resume
	return nil
}

func (r *resumeRepo) FindByID(_ context.Context, companyID, id uuid.UUID) (*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	res, ok := r.s.Resumes[id]
	if !ok || res.CompanyID != companyID {
		return nil, repositories.ErrNotFound
	}
	return &res, nil
}

func (r *resumeRepo) ListRanked(_ context.Context, companyID, batchID uuid.UUID) ([]models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var out []models.Resume
	for _, res := range r.s.Resumes {
		if res.CompanyID == companyID && res.BatchID == batchID {
			res.RawText = ""
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *resumeRepo) CountByVerdict(_ context.Context, companyID uuid.UUID, batchID *uuid.UUID) (models.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return models.Stats{}, r.s.Err
	}
	var stats models.Stats
	for _, res := range r.s.Resumes {
		if res.CompanyID != companyID {
			continue
		}
		if batchID != nil && res.BatchID != *batchID {
			continue
		}
		stats.Add(res.Verdict, 1)
	}
	return stats, nil
}

// ErrUnavailable is a convenient value for Store.Err.
var ErrUnavailable = errors.New("database unavailable")
