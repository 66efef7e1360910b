package students

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/shared"
)

// Repository defines persistence operations for students.
type Repository interface {
	List(ctx context.Context, page shared.PageRequest) ([]Student, int, error)
	Get(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, s NewStudent) (*Student, error)
	Update(ctx context.Context, id string, in UpdateStudentInput) (*Student, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
	db   db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, db: pool}
}

const selectStudent = `SELECT s.id::text, s.user_id::text, s.student_id, s.date_of_birth, s.enrollment_date,
	s.grade, s.section, s.parent_id::text, s.address, s.phone_number, s.emergency_contact,
	s.created_at, s.updated_at,
	COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.email, '')
FROM students s
LEFT JOIN users u ON u.id = s.user_id`

// List returns one page of students, newest first, and the total count.
func (r *PGRepository) List(ctx context.Context, page shared.PageRequest) ([]Student, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("students: count: %w", err)
	}
	rows, err := r.db.Query(ctx, selectStudent+` ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("students: list: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

// Get fetches a student with its user summary.
func (r *PGRepository) Get(ctx context.Context, id string) (*Student, error) {
	return scanStudent(r.db.QueryRow(ctx, selectStudent+` WHERE s.id = $1`, id))
}

// Create inserts a student and returns the stored record.
func (r *PGRepository) Create(ctx context.Context, s NewStudent) (*Student, error) {
	var id string
	err := r.db.QueryRow(ctx, `INSERT INTO students
	(user_id, student_id, date_of_birth, enrollment_date, grade, section, parent_id, address, phone_number, emergency_contact)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text`,
		s.UserID, s.StudentID, s.DateOfBirth, s.EnrollmentDate, s.Grade, s.Section,
		s.ParentID, s.Address, s.PhoneNumber, s.EmergencyContact,
	).Scan(&id)
	if err != nil {
		return nil, db.Classify(err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of in.
func (r *PGRepository) Update(ctx context.Context, id string, in UpdateStudentInput) (*Student, error) {
	err := db.NotFoundIfNone(r.db.Exec(ctx, `UPDATE students SET
	grade = COALESCE($2, grade),
	section = COALESCE($3, section),
	address = COALESCE($4, address),
	phone_number = COALESCE($5, phone_number),
	emergency_contact = COALESCE($6, emergency_contact),
	updated_at = now()
WHERE id = $1`, id, in.Grade, in.Section, in.Address, in.PhoneNumber, in.EmergencyContact))
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a student together with its grades.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM grades WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("students: delete grades: %w", err)
		}
		return db.NotFoundIfNone(tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id))
	})
}

func scanStudent(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(
		&s.ID, &s.UserID, &s.StudentID, &s.DateOfBirth, &s.EnrollmentDate,
		&s.Grade, &s.Section, &s.ParentID, &s.Address, &s.PhoneNumber, &s.EmergencyContact,
		&s.CreatedAt, &s.UpdatedAt,
		&s.User.FirstName, &s.User.LastName, &s.User.Email,
	)
	if err != nil {
		return nil, db.Classify(err)
	}
	return &s, nil
}

var _ Repository = (*PGRepository)(nil)
