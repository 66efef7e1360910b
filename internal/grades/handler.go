package grades

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
)

// Handler exposes grade endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac, validator: httpx.NewValidator()}
}

// MountRoutes registers grade routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireAny(rbac.CapViewGrades, rbac.CapViewOwnGrades)).Get("/student/{studentID}", h.listForStudent)
	r.With(h.rbac.RequireAny(rbac.CapCreateGrades)).Post("/", h.create)
	r.With(h.rbac.RequireAny(rbac.CapUpdateGrades)).Put("/{id}", h.update)
	r.With(h.rbac.RequireAny(rbac.CapDeleteGrades)).Delete("/{id}", h.delete)
}

func (h *Handler) listForStudent(w http.ResponseWriter, r *http.Request) {
	cred := rbac.CredentialFromContext(r.Context())
	grades, err := h.service.ListForStudent(r.Context(), cred, chi.URLParam(r, "studentID"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Student not found", httpx.CodeNotFound)
			return
		}
		h.fail(w, "list grades", err)
		return
	}
	httpx.Success(w, http.StatusOK, "", grades)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateGradeInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	cred := rbac.CredentialFromContext(r.Context())
	grade, err := h.service.Create(r.Context(), cred.SubjectID, in)
	if err != nil {
		h.fail(w, "create grade", err)
		return
	}
	httpx.Success(w, http.StatusCreated, httpx.MsgCreated, grade)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in UpdateGradeInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	grade, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update grade", err)
		return
	}
	httpx.Success(w, http.StatusOK, httpx.MsgUpdated, grade)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err = h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete grade", err)
		return
	}
	httpx.Success(w, http.StatusOK, httpx.MsgDeleted, nil)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, rbac.ErrForbidden):
		rbac.WriteDenial(w, rbac.Deny(rbac.DenyForbidden))
	case errors.Is(err, rbac.ErrUnauthenticated):
		rbac.WriteDenial(w, rbac.Deny(rbac.DenyUnauthenticated))
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Grade not found", httpx.CodeNotFound)
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrBadRequest):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(msg, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
