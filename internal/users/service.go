package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
)

// ErrEmailTaken is returned when creating a user with an existing email.
var ErrEmailTaken = httpx.NewError(http.StatusConflict, httpx.CodeConflict, "User with this email already exists", shared.ErrConflict)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, page shared.PageRequest) ([]User, int, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u NewUser) (*User, error)
	UpdateUser(ctx context.Context, id string, c UserChanges) (*User, error)
}

// Service handles user business logic.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// ListUsers returns a page of users.
func (s *Service) ListUsers(ctx context.Context, page shared.PageRequest) (shared.Page[User], error) {
	users, total, err := s.repo.ListUsers(ctx, page)
	if err != nil {
		return shared.Page[User]{}, err
	}
	return shared.NewPage(users, page, total), nil
}

// GetUser returns a single user.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser hashes the password and stores the account.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, NewUser{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
	})
	if errors.Is(err, shared.ErrConflict) {
		return nil, ErrEmailTaken
	}
	return user, err
}

// UpdateUser applies an administrative update. This is the only path that
// changes a user's role; tokens issued earlier keep the old role until they expire.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	changes := UserChanges{FirstName: in.FirstName, LastName: in.LastName, IsActive: in.IsActive}
	if in.Role != nil {
		role, err := rbac.ParseRole(*in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
		}
		changes.Role = &role
	}
	return s.repo.UpdateUser(ctx, id, changes)
}
