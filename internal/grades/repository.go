package grades

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/student-records/student-api/internal/platform/db"
)

// Repository defines persistence operations for grades.
type Repository interface {
	ListByStudent(ctx context.Context, studentID string) ([]Grade, error)
	Get(ctx context.Context, id string) (*Grade, error)
	Create(ctx context.Context, g Grade) (*Grade, error)
	Update(ctx context.Context, g Grade) (*Grade, error)
	Delete(ctx context.Context, id string) (*Grade, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

const gradeColumns = `id::text, student_id::text, class_id::text, teacher_id::text, assignment_name, category,
	score, max_score, percentage, letter_grade, grade_date, comments, created_at, updated_at`

// ListByStudent returns a student's grades, most recent first.
func (r *PGRepository) ListByStudent(ctx context.Context, studentID string) ([]Grade, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE student_id = $1 ORDER BY grade_date DESC, created_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("grades: list: %w", err)
	}
	defer rows.Close()

	var out []Grade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// Get fetches a grade by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Grade, error) {
	return scanGrade(r.db.QueryRow(ctx, `SELECT `+gradeColumns+` FROM grades WHERE id = $1`, id))
}

// Create inserts g and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, g Grade) (*Grade, error) {
	return scanGrade(r.db.QueryRow(ctx, `INSERT INTO grades
	(student_id, class_id, teacher_id, assignment_name, category, score, max_score, percentage, letter_grade, grade_date, comments)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+gradeColumns,
		g.StudentID, g.ClassID, g.TeacherID, g.AssignmentName, string(g.Category),
		g.Score, g.MaxScore, g.Percentage, g.LetterGrade, g.GradeDate, g.Comments))
}

// Update overwrites the mutable columns of g.
func (r *PGRepository) Update(ctx context.Context, g Grade) (*Grade, error) {
	return scanGrade(r.db.QueryRow(ctx, `UPDATE grades SET
	category = $2, score = $3, max_score = $4, percentage = $5, letter_grade = $6, comments = $7,
	updated_at = now()
WHERE id = $1
RETURNING `+gradeColumns,
		g.ID, string(g.Category), g.Score, g.MaxScore, g.Percentage, g.LetterGrade, g.Comments))
}

// Delete removes a grade and returns the deleted row.
func (r *PGRepository) Delete(ctx context.Context, id string) (*Grade, error) {
	return scanGrade(r.db.QueryRow(ctx, `DELETE FROM grades WHERE id = $1 RETURNING `+gradeColumns, id))
}

func scanGrade(row pgx.Row) (*Grade, error) {
	var (
		g        Grade
		category string
	)
	err := row.Scan(&g.ID, &g.StudentID, &g.ClassID, &g.TeacherID, &g.AssignmentName, &category,
		&g.Score, &g.MaxScore, &g.Percentage, &g.LetterGrade, &g.GradeDate, &g.Comments,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	g.Category = Category(category)
	return &g, nil
}

var _ Repository = (*PGRepository)(nil)

// StudentIDsWithGrades lists every student that has at least one grade.
func (r *PGRepository) StudentIDsWithGrades(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT student_id::text FROM grades ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("grades: graded students: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("grades: graded students: %w", err)
	}
	return ids, nil
}
