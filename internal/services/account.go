package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type AccountService interface {
	// Register creates a new company with an admin user and signs them in.
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	CreateUser(ctx context.Context, companyID uuid.UUID, req models.CreateUserRequest) (*models.User, error)
	Me(ctx context.Context, identity auth.Identity) (*models.User, error)
}

type accountService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenService
	hasher   *auth.PasswordHasher
}

func NewAccountService(userRepo repositories.UserRepository, tokens *auth.TokenService, hasher *auth.PasswordHasher) AccountService {
	return &accountService{userRepo: userRepo, tokens: tokens, hasher: hasher}
}

func (s *accountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	company := &models.Company{ID: uuid.New(), Name: strings.TrimSpace(req.CompanyName)}
	user := &models.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := s.userRepo.CreateWithCompany(ctx, company, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info().Str("company_id", company.ID.String()).Str("user_id", user.ID.String()).Msg("company registered")
	return s.signIn(user)
}

func (s *accountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(user)
}

func (s *accountService) CreateUser(ctx context.Context, companyID uuid.UUID, req models.CreateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("unknown role: %q", req.Role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) Me(ctx context.Context, identity auth.Identity) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != identity.CompanyID {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (s *accountService) signIn(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
