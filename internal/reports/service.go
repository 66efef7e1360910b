package reports

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/student-records/student-api/internal/classes"
	"github.com/student-records/student-api/internal/grades"
	"github.com/student-records/student-api/internal/students"
)

// StudentSource loads student records.
type StudentSource interface {
	Get(ctx context.Context, id string) (*students.Student, error)
}

// ClassSource loads class records.
type ClassSource interface {
	Get(ctx context.Context, id string) (*classes.Class, error)
}

// GradeSource lists grades of a student, most recent first.
type GradeSource interface {
	ListByStudent(ctx context.Context, studentID string) ([]grades.Grade, error)
}

// classLookupLimit bounds concurrent class lookups per report.
const classLookupLimit = 4

// Service builds student reports, caching them in Redis.
type Service struct {
	students StudentSource
	classes  ClassSource
	grades   GradeSource
	cache    *Cache
	group    singleflight.Group
}

// NewService wires report dependencies. cache may be nil.
func NewService(students StudentSource, classes ClassSource, grades GradeSource, cache *Cache) *Service {
	return &Service{
		students: students,
		classes:  classes,
		grades:   grades,
		cache:    cache,
	}
}

// StudentReport returns one GradeReport per class the student has grades in.
func (s *Service) StudentReport(ctx context.Context, studentID string) ([]GradeReport, error) {
	var out []GradeReport
	err := s.cache.FetchJSON(ctx, studentKey(studentID), &out, func(ctx context.Context) (any, error) {
		return s.collapse(ctx, "student:"+studentID, func(ctx context.Context) (any, error) {
			return s.buildStudentReport(ctx, studentID)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PerformanceReport returns the student's GPA across classes.
func (s *Service) PerformanceReport(ctx context.Context, studentID string) (*PerformanceReport, error) {
	var out PerformanceReport
	err := s.cache.FetchJSON(ctx, performanceKey(studentID), &out, func(ctx context.Context) (any, error) {
		return s.collapse(ctx, "performance:"+studentID, func(ctx context.Context) (any, error) {
			return s.buildPerformanceReport(ctx, studentID)
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rebuilds both reports of studentID and stores them in the cache.
func (s *Service) Refresh(ctx context.Context, studentID string) error {
	perf, err := s.buildPerformanceReport(ctx, studentID)
	if err != nil {
		return err
	}
	if err := s.cache.Store(ctx, studentKey(studentID), perf.Reports); err != nil {
		return fmt.Errorf("reports: store student report: %w", err)
	}
	if err := s.cache.Store(ctx, performanceKey(studentID), perf); err != nil {
		return fmt.Errorf("reports: store performance report: %w", err)
	}
	return nil
}

// collapse shares a single in-flight build between concurrent callers.
func (s *Service) collapse(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *Service) buildStudentReport(ctx context.Context, studentID string) ([]GradeReport, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	list, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("reports: list grades: %w", err)
	}

	var order []string
	byClass := make(map[string][]grades.Grade)
	for _, g := range list {
		if _, seen := byClass[g.ClassID]; !seen {
			order = append(order, g.ClassID)
		}
		byClass[g.ClassID] = append(byClass[g.ClassID], g)
	}

	names := make([]string, len(order))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(classLookupLimit)
	for i, classID := range order {
		eg.Go(func() error {
			c, err := s.classes.Get(egCtx, classID)
			if err != nil {
				return fmt.Errorf("reports: class %s: %w", classID, err)
			}
			names[i] = c.Name
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	studentName := displayName(student.User)
	reports := make([]GradeReport, 0, len(order))
	for i, classID := range order {
		reports = append(reports, summarise(studentID, studentName, classID, names[i], byClass[classID]))
	}
	return reports, nil
}

func (s *Service) buildPerformanceReport(ctx context.Context, studentID string) (*PerformanceReport, error) {
	reports, err := s.buildStudentReport(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &PerformanceReport{
		StudentID:    studentID,
		OverallGPA:   overallGPA(reports),
		TotalClasses: len(reports),
		Reports:      reports,
	}, nil
}

func summarise(studentID, studentName, classID, className string, list []grades.Grade) GradeReport {
	var totalScore, totalMax float64
	for _, g := range list {
		totalScore += g.Score
		totalMax += g.MaxScore
	}
	pct := grades.Percentage(totalScore, totalMax)
	return GradeReport{
		StudentID:         studentID,
		StudentName:       studentName,
		ClassID:           classID,
		ClassName:         className,
		Grades:            list,
		AverageScore:      grades.Round2(totalScore / float64(len(list))),
		AveragePercentage: pct,
		LetterGrade:       grades.LetterGrade(pct),
	}
}

// displayName title-cases the full name. Casers hold state, so one is built per call.
func displayName(u students.UserSummary) string {
	return cases.Title(language.Und).String(strings.TrimSpace(u.FullName()))
}

// overallGPA averages the grade points of each class. A student without
// grades has a GPA of zero.
func overallGPA(reports []GradeReport) float64 {
	if len(reports) == 0 {
		return 0
	}
	var total float64
	for _, r := range reports {
		total += grades.GPAPoints(r.LetterGrade)
	}
	return grades.Round2(total / float64(len(reports)))
}
