package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/student-records/student-api/internal/auth"
	"github.com/student-records/student-api/internal/classes"
	"github.com/student-records/student-api/internal/grades"
	"github.com/student-records/student-api/internal/observability"
	"github.com/student-records/student-api/internal/platform/httpx"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/reports"
	"github.com/student-records/student-api/internal/students"
	"github.com/student-records/student-api/internal/users"
	"github.com/student-records/student-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger    *slog.Logger
	Config    *Config
	Verifier  auth.Verifier
	RBAC      rbac.Middleware
	Metrics   *observability.Metrics
	StartedAt time.Time

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	StudentsHandler    *students.Handler
	ClassesHandler     *classes.Handler
	GradesHandler      *grades.Handler
	ReportsHandler     *reports.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
}

// Health is the body of GET /health.
type Health struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
	Runtime   string  `json:"runtime"`
}

// NewRouter constructs the chi.Router with API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	started := params.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	version := "1.0.0"
	if params.Config != nil && params.Config.AppVersion != "" {
		version = params.Config.AppVersion
	}
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, Health{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Uptime:    time.Since(started).Seconds(),
			Version:   version,
			Runtime:   "go",
		})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, httpx.MsgNotFound, httpx.CodeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Route("/v1", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(params.Verifier))

			if params.UsersHandler != nil {
				r.Route("/users", params.UsersHandler.MountRoutes)
			}
			if params.StudentsHandler != nil {
				r.Route("/students", params.StudentsHandler.MountRoutes)
			}
			if params.ClassesHandler != nil {
				r.Route("/classes", params.ClassesHandler.MountRoutes)
			}
			if params.GradesHandler != nil {
				r.Route("/grades", params.GradesHandler.MountRoutes)
			}
			if params.ReportsHandler != nil {
				r.Route("/reports", params.ReportsHandler.MountRoutes)
			}
			if params.PermissionsHandler != nil {
				r.Route("/permissions", params.PermissionsHandler.MountRoutes)
			}
			if params.JobHandler != nil {
				r.Route("/jobs", func(r chi.Router) {
					r.Use(params.RBAC.RequireMinimumRole(rbac.RoleAdmin))
					params.JobHandler.MountRoutes(r)
				})
			}
		})
	})

	return r
}
