package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/rbac"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(conn db.DBTX) *PGRepository {
	return &PGRepository{db: conn}
}

const selectUser = `SELECT id::text, email, password_hash, first_name, last_name, role, is_active, last_login
FROM users`

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE lower(email) = lower($1)`, email))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

// TouchLastLogin records a successful login.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return db.NotFoundIfNone(r.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at.UTC()))
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.LastLogin); err != nil {
		return nil, db.Classify(err)
	}
	parsed, err := rbac.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("auth: user %s: %w", u.ID, err)
	}
	u.Role = parsed
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
