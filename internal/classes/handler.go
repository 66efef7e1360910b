package classes

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

// Handler exposes class endpoints.
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

// MountRoutes registers class routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapViewClasses))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapManageClasses))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), shared.ParsePageRequest(r))
	if err != nil {
		h.fail(w, "list classes", err)
		return
	}
	httpx.Success(w, http.StatusOK, "", page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	class, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get class", err)
		return
	}
	httpx.Success(w, http.StatusOK, "", class)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateClassInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	class, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create class", err)
		return
	}
	httpx.Success(w, http.StatusCreated, httpx.MsgCreated, class)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in UpdateClassInput
	if err := httpx.Bind(r, h.validator, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	class, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update class", err)
		return
	}
	httpx.Success(w, http.StatusOK, httpx.MsgUpdated, class)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err = h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete class", err)
		return
	}
	httpx.Success(w, http.StatusOK, httpx.MsgDeleted, nil)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Class not found", httpx.CodeNotFound)
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrBadRequest):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(msg, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
