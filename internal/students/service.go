package students

import (
	"context"
	"fmt"
	"time"

	"github.com/student-records/student-api/internal/shared"
)

// Service implements student business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of students.
func (s *Service) List(ctx context.Context, page shared.PageRequest) (shared.Page[Student], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return shared.Page[Student]{}, err
	}
	return shared.NewPage(items, page, total), nil
}

// Get returns a student by id.
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.Get(ctx, id)
}

// Create enrolls a student.
func (s *Service) Create(ctx context.Context, in CreateStudentInput) (*Student, error) {
	dob, err := time.Parse(time.RFC3339, in.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: dateOfBirth: %v", shared.ErrValidation, err)
	}
	enrolled, err := time.Parse(time.RFC3339, in.EnrollmentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: enrollmentDate: %v", shared.ErrValidation, err)
	}
	if enrolled.Before(dob) {
		return nil, fmt.Errorf("%w: enrollmentDate precedes dateOfBirth", shared.ErrValidation)
	}
	section := in.Section
	if section == "" {
		section = DefaultSection
	}
	return s.repo.Create(ctx, NewStudent{
		UserID:           in.UserID,
		StudentID:        in.StudentID,
		DateOfBirth:      dob.UTC(),
		EnrollmentDate:   enrolled.UTC(),
		Grade:            in.Grade,
		Section:          section,
		ParentID:         in.ParentID,
		Address:          in.Address,
		PhoneNumber:      in.PhoneNumber,
		EmergencyContact: in.EmergencyContact,
	})
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, in UpdateStudentInput) (*Student, error) {
	return s.repo.Update(ctx, id, in)
}

// Delete removes a student and its grades.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
