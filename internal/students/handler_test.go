package students

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
)

func newTestRouter(role rbac.Role) (http.Handler, *mockRepository) {
	repo := newMockRepository()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			cred := &rbac.Credential{SubjectID: "caller", Role: role}
			next.ServeHTTP(w, req.WithContext(rbac.ContextWithCredential(req.Context(), cred)))
		})
	})
	r.Route("/students", NewHandler(nil, NewService(repo), rbac.Middleware{}).MountRoutes)
	return r, repo
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestStudentRoutesByRole(t *testing.T) {
	body := `{"userId":"5f0c1d1e-3b7a-4e55-9a47-0f3b6f2b9c11","studentId":"STU-9","dateOfBirth":"2010-01-01T00:00:00Z","enrollmentDate":"2020-09-01T00:00:00Z","grade":"5"}`

	teacher, _ := newTestRouter(rbac.RoleTeacher)
	assert.Equal(t, http.StatusOK, send(teacher, http.MethodGet, "/students/", "").Code)
	assert.Equal(t, http.StatusForbidden, send(teacher, http.MethodPost, "/students/", body).Code)

	student, _ := newTestRouter(rbac.RoleStudent)
	assert.Equal(t, http.StatusForbidden, send(student, http.MethodGet, "/students/", "").Code)

	admin, repo := newTestRouter(rbac.RoleAdmin)
	rec := send(admin, http.MethodPost, "/students/", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.students, 1)
	for id := range repo.students {
		assert.Equal(t, http.StatusOK, send(admin, http.MethodDelete, "/students/"+id, "").Code)
	}
}

func TestStudentNotFoundMessage(t *testing.T) {
	admin, _ := newTestRouter(rbac.RoleAdmin)
	rec := send(admin, http.MethodGet, "/students/9b2e1c7a-4f1d-4c1e-8a3b-2d6f0e9c5a71", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Student not found", env.Message)
}

func TestCreateStudentValidation(t *testing.T) {
	admin, _ := newTestRouter(rbac.RoleAdmin)
	rec := send(admin, http.MethodPost, "/students/", `{"userId":"x","studentId":"","dateOfBirth":"yesterday","enrollmentDate":"2020-09-01T00:00:00Z","grade":"5"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	fields := make([]string, 0, len(env.Errors))
	for _, fe := range env.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"userId", "studentId", "dateOfBirth"}, fields)
}

func TestMalformedStudentIDIsBadRequest(t *testing.T) {
	admin, _ := newTestRouter(rbac.RoleAdmin)
	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, `{"grade":"6"}`},
		{http.MethodDelete, ""},
	} {
		rec := send(admin, tc.method, "/students/not-a-uuid", tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.method)

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "Invalid id", env.Message)
		assert.Equal(t, httpx.CodeBadRequest, env.Error)
	}
}
