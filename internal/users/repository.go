package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

const userColumns = `id::text, email, first_name, last_name, role, is_active, last_login, created_at, updated_at`

// ListUsers returns one page of users, newest first, and the total count.
func (r *Repository) ListUsers(ctx context.Context, page shared.PageRequest) ([]User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// GetUser fetches a user by id.
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// CreateUser inserts a user. Duplicate emails surface as shared.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, u NewUser) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `INSERT INTO users (email, password_hash, first_name, last_name, role)
VALUES (lower($1), $2, $3, $4, $5)
RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, string(u.Role)))
}

// UpdateUser applies the non-nil changes.
func (r *Repository) UpdateUser(ctx context.Context, id string, c UserChanges) (*User, error) {
	var role *string
	if c.Role != nil {
		s := string(*c.Role)
		role = &s
	}
	return scanUser(r.db.QueryRow(ctx, `UPDATE users SET
	first_name = COALESCE($2, first_name),
	last_name = COALESCE($3, last_name),
	role = COALESCE($4, role),
	is_active = COALESCE($5, is_active),
	updated_at = now()
WHERE id = $1
RETURNING `+userColumns,
		id, c.FirstName, c.LastName, role, c.IsActive))
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, db.Classify(err)
	}
	parsed, err := rbac.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("users: user %s: %w", u.ID, err)
	}
	u.Role = parsed
	return &u, nil
}
