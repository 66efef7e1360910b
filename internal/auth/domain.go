package auth

import (
	"time"

	"github.com/student-records/student-api/internal/rbac"
)

// User represents an account able to log in.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         rbac.Role
	IsActive     bool
	LastLogin    *time.Time
}

// Identity returns the token subject for u.
func (u *User) Identity() Identity {
	return Identity{SubjectID: u.ID, Email: u.Email, Role: u.Role}
}

// LoginUser summarises the account that just logged in.
type LoginUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginResult is the payload of the login endpoint: the token pair plus the
// account it was issued for.
type LoginResult struct {
	TokenPair
	User LoginUser `json:"user"`
}

// Profile is the payload of the current-user endpoint.
type Profile struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Role        rbac.Role         `json:"role"`
	Permissions []rbac.Capability `json:"permissions"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
}
