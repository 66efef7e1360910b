package classes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/shared"
)

// Repository defines persistence operations for classes.
type Repository interface {
	List(ctx context.Context, page shared.PageRequest) ([]Class, int, error)
	Get(ctx context.Context, id string) (*Class, error)
	Create(ctx context.Context, in CreateClassInput) (*Class, error)
	Update(ctx context.Context, id string, in UpdateClassInput) (*Class, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

const classColumns = `id::text, name, code, description, teacher_id::text, subject, grade, section,
	schedule, max_students, academic_year, created_at, updated_at`

// List returns one page of classes, newest first, and the total count.
func (r *PGRepository) List(ctx context.Context, page shared.PageRequest) ([]Class, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM classes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("classes: count: %w", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+classColumns+` FROM classes ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("classes: list: %w", err)
	}
	defer rows.Close()

	var out []Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// Get fetches a class by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Class, error) {
	return scanClass(r.db.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// Create inserts a class. Duplicate codes surface as shared.ErrConflict.
func (r *PGRepository) Create(ctx context.Context, in CreateClassInput) (*Class, error) {
	return scanClass(r.db.QueryRow(ctx, `INSERT INTO classes
	(name, code, description, teacher_id, subject, grade, section, schedule, max_students, academic_year)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+classColumns,
		in.Name, in.Code, in.Description, in.TeacherID, in.Subject, in.Grade,
		in.Section, in.Schedule, in.MaxStudents, in.AcademicYear))
}

// Update applies the non-nil fields of in.
func (r *PGRepository) Update(ctx context.Context, id string, in UpdateClassInput) (*Class, error) {
	return scanClass(r.db.QueryRow(ctx, `UPDATE classes SET
	name = COALESCE($2, name),
	description = COALESCE($3, description),
	teacher_id = COALESCE($4::uuid, teacher_id),
	schedule = COALESCE($5, schedule),
	max_students = COALESCE($6, max_students),
	updated_at = now()
WHERE id = $1
RETURNING `+classColumns,
		id, in.Name, in.Description, in.TeacherID, in.Schedule, in.MaxStudents))
}

// Delete removes a class.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	return db.NotFoundIfNone(r.db.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id))
}

func scanClass(row pgx.Row) (*Class, error) {
	var c Class
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.TeacherID, &c.Subject, &c.Grade,
		&c.Section, &c.Schedule, &c.MaxStudents, &c.AcademicYear, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
