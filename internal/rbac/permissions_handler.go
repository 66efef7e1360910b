package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/student-records/student-api/internal/platform/httpx"
)

// PermissionsHandler exposes the permission catalog.
type PermissionsHandler struct {
	rbac Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{rbac: rbac}
}

// MountRoutes registers permission routes. Callers must authenticate first.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(CapManageUsers))
		r.Get("/", h.listPermissions)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireMinimumRole(RoleAdmin))
		r.Get("/roles", h.listRoles)
	})
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, "", Permissions())
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, "", Grants())
}
