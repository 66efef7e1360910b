package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-records/student-api/internal/auth"
	"github.com/student-records/student-api/internal/observability"
	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/jobs"
	_ "github.com/student-records/student-api/testing"
)

type routerFixture struct {
	handler http.Handler
	tokens  *auth.TokenService
	metrics *observability.Metrics
}

func newRouterFixture(t *testing.T, cfg *Config) routerFixture {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
	})
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	guard := rbac.Middleware{Observer: metrics}
	handler := NewRouter(RouterParams{
		Config:             cfg,
		Verifier:           tokens,
		RBAC:               guard,
		Metrics:            metrics,
		StartedAt:          time.Now().Add(-time.Minute),
		PermissionsHandler: rbac.NewPermissionsHandler(guard),
		JobHandler:         jobs.NewHandler(nil, nil),
	})
	return routerFixture{handler: handler, tokens: tokens, metrics: metrics}
}

func (f routerFixture) token(t *testing.T, role rbac.Role) string {
	t.Helper()
	tok, err := f.tokens.IssueAccessToken(auth.Identity{SubjectID: "u-" + string(role), Email: "x@school.test", Role: role})
	require.NoError(t, err)
	return tok
}

func (f routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t, &Config{AppVersion: "2.1.0"})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "go", body.Runtime)
	assert.Equal(t, "2.1.0", body.Version)
	assert.GreaterOrEqual(t, body.Uptime, 60.0)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	f := newRouterFixture(t, &Config{})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, httpx.CodeNotFound, env.Error)
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	f := newRouterFixture(t, &Config{})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/v1/permissions", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpx.CodeUnauthorized, env.Error)
}

func TestPermissionsAndJobsGuards(t *testing.T) {
	f := newRouterFixture(t, &Config{})

	cases := []struct {
		name   string
		path   string
		role   rbac.Role
		status int
	}{
		{name: "super admin lists permissions", path: "/v1/permissions", role: rbac.RoleSuperAdmin, status: http.StatusOK},
		{name: "admin lacks manage users", path: "/v1/permissions", role: rbac.RoleAdmin, status: http.StatusForbidden},
		{name: "teacher cannot list permissions", path: "/v1/permissions", role: rbac.RoleTeacher, status: http.StatusForbidden},
		{name: "super admin sees roles", path: "/v1/permissions/roles", role: rbac.RoleSuperAdmin, status: http.StatusOK},
		{name: "admin sees queue", path: "/v1/jobs/health", role: rbac.RoleAdmin, status: http.StatusOK},
		{name: "student cannot see queue", path: "/v1/jobs/health", role: rbac.RoleStudent, status: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+f.token(t, tc.role))
			assert.Equal(t, tc.status, f.do(req).Code)
		})
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `student_api_authz_decisions_total{outcome="FORBIDDEN"} 3`))
}

func TestRateLimitRejectsWithEnvelope(t *testing.T) {
	f := newRouterFixture(t, &Config{RateLimitEnabled: true, RateLimitWindow: time.Minute, RateLimitMaxRequests: 2})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	}
	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, CodeTooManyRequests, env.Error)
	assert.Equal(t, MsgTooManyRequests, env.Message)
}

func TestCORSPreflight(t *testing.T) {
	f := newRouterFixture(t, &Config{CORSOrigin: "https://portal.school.test"})

	req := httptest.NewRequest(http.MethodOptions, "/v1/auth/login", nil)
	req.Header.Set("Origin", "https://portal.school.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := f.do(req)

	assert.Equal(t, "https://portal.school.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
