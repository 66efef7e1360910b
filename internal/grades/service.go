package grades

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
	"github.com/student-records/student-api/internal/students"
)

// StudentLookup resolves student records for ownership checks.
type StudentLookup interface {
	Get(ctx context.Context, id string) (*students.Student, error)
}

// Invalidator drops derived data after a student's grades change.
type Invalidator interface {
	InvalidateStudent(ctx context.Context, studentID string) error
}

// Service implements grade business rules.
type Service struct {
	repo        Repository
	students    StudentLookup
	invalidator Invalidator
	logger      *slog.Logger
}

// NewService constructs a Service. invalidator may be nil.
func NewService(repo Repository, students StudentLookup, invalidator Invalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, students: students, invalidator: invalidator, logger: logger}
}

// ListForStudent returns the grades of studentID visible to cred. Callers
// holding VIEW_GRADES see any student; others only the student record
// linked to their own account, and learn nothing about other ids.
func (s *Service) ListForStudent(ctx context.Context, cred *rbac.Credential, studentID string) ([]Grade, error) {
	if cred == nil {
		return nil, rbac.ErrUnauthenticated
	}
	privileged := rbac.HasCapability(cred.Role, rbac.CapViewGrades)
	if _, err := uuid.Parse(studentID); err != nil {
		// Own-grades callers learn nothing beyond the ownership denial.
		if !privileged {
			return nil, rbac.ErrForbidden
		}
		return nil, httpx.ErrInvalidID
	}
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		if !privileged && errors.Is(err, shared.ErrNotFound) {
			return nil, rbac.ErrForbidden
		}
		return nil, err
	}
	if !privileged && student.UserID != cred.SubjectID {
		return nil, rbac.ErrForbidden
	}
	grades, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []Grade{}
	}
	return grades, nil
}

// Create records a grade authored by teacherID.
func (s *Service) Create(ctx context.Context, teacherID string, in CreateGradeInput) (*Grade, error) {
	gradeDate, err := time.Parse(time.RFC3339, in.GradeDate)
	if err != nil {
		return nil, fmt.Errorf("%w: gradeDate: %v", shared.ErrValidation, err)
	}
	score := 0.0
	if in.Score != nil {
		score = *in.Score
	}
	pct := Percentage(score, in.MaxScore)
	g, err := s.repo.Create(ctx, Grade{
		StudentID:      in.StudentID,
		ClassID:        in.ClassID,
		TeacherID:      teacherID,
		AssignmentName: in.AssignmentName,
		Category:       in.Category,
		Score:          score,
		MaxScore:       in.MaxScore,
		Percentage:     pct,
		LetterGrade:    LetterGrade(pct),
		GradeDate:      gradeDate.UTC(),
		Comments:       in.Comments,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, g.StudentID)
	return g, nil
}

// Update applies a partial update, recomputing percentage and letter when
// the score or the maximum changes.
func (s *Service) Update(ctx context.Context, id string, in UpdateGradeInput) (*Grade, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.Comments != nil {
		g.Comments = in.Comments
	}
	if in.Score != nil || in.MaxScore != nil {
		if in.Score != nil {
			g.Score = *in.Score
		}
		if in.MaxScore != nil {
			g.MaxScore = *in.MaxScore
		}
		g.Percentage = Percentage(g.Score, g.MaxScore)
		g.LetterGrade = LetterGrade(g.Percentage)
	}
	updated, err := s.repo.Update(ctx, *g)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, updated.StudentID)
	return updated, nil
}

// Delete removes a grade.
func (s *Service) Delete(ctx context.Context, id string) error {
	g, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, g.StudentID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, studentID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateStudent(ctx, studentID); err != nil {
		s.logger.Warn("invalidate student reports", slog.String("student_id", studentID), slog.Any("error", err))
	}
}
