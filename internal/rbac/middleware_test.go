package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-records/student-api/internal/platform/httpx"
)

type countingObserver struct {
	allowed int
	denied  map[DenyReason]int
}

func (o *countingObserver) ObserveDecision(d Decision) {
	if d.Allowed {
		o.allowed++
		return
	}
	if o.denied == nil {
		o.denied = map[DenyReason]int{}
	}
	o.denied[d.Reason]++
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serveWith(t *testing.T, mw func(http.Handler) http.Handler, cred *Credential) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/grades/student/1", nil)
	if cred != nil {
		req = req.WithContext(ContextWithCredential(req.Context(), cred))
	}
	rec := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(rec, req)
	return rec
}

func envelopeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)
	return env.Error
}

func TestRequireAnyStatuses(t *testing.T) {
	obs := &countingObserver{}
	m := Middleware{Observer: obs}
	guard := m.RequireAny(CapViewGrades, CapViewOwnGrades)

	rec := serveWith(t, guard, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", envelopeCode(t, rec))

	rec = serveWith(t, guard, &Credential{Role: RoleParent})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", envelopeCode(t, rec))

	rec = serveWith(t, guard, &Credential{Role: RoleStudent})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, obs.allowed)
	assert.Equal(t, 1, obs.denied[DenyUnauthenticated])
	assert.Equal(t, 1, obs.denied[DenyForbidden])
}

func TestRequireRole(t *testing.T) {
	guard := Middleware{}.RequireRole(RoleTeacher, RoleAdmin)
	assert.Equal(t, http.StatusOK, serveWith(t, guard, &Credential{Role: RoleTeacher}).Code)
	assert.Equal(t, http.StatusForbidden, serveWith(t, guard, &Credential{Role: RoleSuperAdmin}).Code)
	assert.Equal(t, http.StatusUnauthorized, serveWith(t, guard, nil).Code)
}

func TestRequireMinimumRole(t *testing.T) {
	guard := Middleware{}.RequireMinimumRole(RoleTeacher)
	assert.Equal(t, http.StatusOK, serveWith(t, guard, &Credential{Role: RoleSuperAdmin}).Code)
	assert.Equal(t, http.StatusOK, serveWith(t, guard, &Credential{Role: RoleTeacher}).Code)
	assert.Equal(t, http.StatusForbidden, serveWith(t, guard, &Credential{Role: RoleParent}).Code)
}

func TestPermissionsRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/permissions", NewPermissionsHandler(Middleware{}).MountRoutes)

	get := func(path string, cred *Credential) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(ContextWithCredential(req.Context(), cred))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/permissions/", &Credential{Role: RoleSuperAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, get("/permissions/", &Credential{Role: RoleAdmin}).Code)
	assert.Equal(t, http.StatusOK, get("/permissions/roles", &Credential{Role: RoleAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, get("/permissions/roles", &Credential{Role: RoleTeacher}).Code)

	rec := get("/permissions/roles", &Credential{Role: RoleSuperAdmin})
	var body struct {
		Data []RoleGrant `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 5)
}
