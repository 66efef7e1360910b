package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenService
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the user and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.tokens.IssuePair(user.Identity())
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("record last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return &LoginResult{
		TokenPair: pair,
		User: LoginUser{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	return s.tokens.Refresh(refreshToken)
}

// Me loads the profile of the authenticated caller. Permissions reflect the
// role currently stored for the user.
func (s *Service) Me(ctx context.Context, cred *rbac.Credential) (*Profile, error) {
	if cred == nil {
		return nil, rbac.ErrUnauthenticated
	}
	user, err := s.repo.FindByID(ctx, cred.SubjectID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: rbac.CapabilitiesForRole(user.Role),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
	}, nil
}
