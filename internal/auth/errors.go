package auth

import (
	"errors"
	"net/http"

	"github.com/student-records/student-api/internal/platform/httpx"
)

// Token verification failures. All are terminal; callers must re-authenticate.
var (
	ErrTokenExpired          = errors.New("auth: token expired")
	ErrTokenMalformed        = errors.New("auth: token malformed")
	ErrTokenInvalidSignature = errors.New("auth: token signature invalid")
)

// Reason codes reported to clients for token failures.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// HTTPError maps a verification failure onto its client-facing error.
// Malformed and forged tokens share a code so callers cannot tell which
// check failed.
func HTTPError(err error) *httpx.Error {
	if errors.Is(err, ErrTokenExpired) {
		return httpx.NewError(http.StatusUnauthorized, CodeTokenExpired, "Token has expired", err)
	}
	return httpx.NewError(http.StatusUnauthorized, CodeTokenInvalid, "Invalid token", err)
}
