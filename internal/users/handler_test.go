package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/student-records/student-api/internal/rbac"
)

func newTestRouter(cred *rbac.Credential) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(rbac.ContextWithCredential(req.Context(), cred)))
		})
	})
	svc := NewService(newMockRepository(), bcrypt.MinCost)
	r.Route("/users", NewHandler(nil, svc, rbac.Middleware{}).MountRoutes)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUserRoutesRequireManageUsers(t *testing.T) {
	router := newTestRouter(&rbac.Credential{SubjectID: "a", Role: rbac.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, send(router, http.MethodGet, "/users/", "").Code)
	assert.Equal(t, http.StatusForbidden, send(router, http.MethodPost, "/users/", `{}`).Code)

	router = newTestRouter(nil)
	assert.Equal(t, http.StatusUnauthorized, send(router, http.MethodGet, "/users/", "").Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	router := newTestRouter(&rbac.Credential{SubjectID: "root", Role: rbac.RoleSuperAdmin})
	body := `{"email":"new@school.test","password":"long-enough","firstName":"N","lastName":"U","role":"STUDENT"}`

	rec := send(router, http.MethodPost, "/users/", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"STUDENT"`)
	assert.NotContains(t, rec.Body.String(), "long-enough")

	rec = send(router, http.MethodPost, "/users/", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with this email already exists")

	rec = send(router, http.MethodPost, "/users/", `{"email":"bad","password":"short","firstName":"N","lastName":"U","role":"KING"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = send(router, http.MethodPut, "/users/4a1f0e2d-8c3b-4d6a-b5e7-9f0a1b2c3d4e", `{"firstName":"Z"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(router, http.MethodPut, "/users/nope", `{"firstName":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, send(router, http.MethodGet, "/users/nope", "").Code)
}
