package users

import (
	"time"

	"github.com/student-records/student-api/internal/rbac"
)

// User represents a user account for management.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      rbac.Role  `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateUserInput is the payload for creating an account.
type CreateUserInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Role      string `json:"role" validate:"required,oneof=SUPER_ADMIN ADMIN TEACHER STUDENT PARENT"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Role      *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN TEACHER STUDENT PARENT"`
	IsActive  *bool   `json:"isActive"`
}

// NewUser is the row written on creation.
type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         rbac.Role
}

// UserChanges is the validated form of UpdateUserInput.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Role      *rbac.Role
	IsActive  *bool
}
