package classes

import (
	"context"
	"errors"
	"net/http"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/shared"
)

// ErrCodeTaken is returned when a class code is already in use.
var ErrCodeTaken = httpx.NewError(http.StatusConflict, httpx.CodeConflict, "Class with this code already exists", shared.ErrConflict)

// Service implements class business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of classes.
func (s *Service) List(ctx context.Context, page shared.PageRequest) (shared.Page[Class], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return shared.Page[Class]{}, err
	}
	return shared.NewPage(items, page, total), nil
}

// Get returns a class by id.
func (s *Service) Get(ctx context.Context, id string) (*Class, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a class.
func (s *Service) Create(ctx context.Context, in CreateClassInput) (*Class, error) {
	c, err := s.repo.Create(ctx, in)
	if errors.Is(err, shared.ErrConflict) {
		return nil, ErrCodeTaken
	}
	return c, err
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateClassInput) (*Class, error) {
	return s.repo.Update(ctx, id, in)
}

// Delete removes a class.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
