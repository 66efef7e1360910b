package auth

import (
	"net/http"
	"strings"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
)

// Verifier checks bearer tokens. *TokenService satisfies it.
type Verifier interface {
	Verify(raw string, class KeyClass) (*rbac.Credential, error)
}

// Authenticate verifies the bearer access token and stores the credential
// in the request context. Requests without a valid token are rejected.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, httpx.MsgUnauthorized, httpx.CodeUnauthorized)
				return
			}
			cred, err := v.Verify(raw, AccessKey)
			if err != nil {
				httpx.RespondError(w, HTTPError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(rbac.ContextWithCredential(r.Context(), cred)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
