package shared

import (
	"errors"

	"github.com/student-records/student-api/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = httpx.ErrNotFound
	// ErrConflict indicates a unique constraint was violated.
	ErrConflict = httpx.ErrConflict
	// ErrValidation indicates a business rule rejected the input.
	ErrValidation = httpx.ErrValidation
	// ErrBadRequest indicates a malformed request value.
	ErrBadRequest = httpx.ErrBadRequest
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
