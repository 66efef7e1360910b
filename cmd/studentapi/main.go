package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/student-records/student-api/internal/app"
	"github.com/student-records/student-api/internal/auth"
	"github.com/student-records/student-api/internal/classes"
	"github.com/student-records/student-api/internal/grades"
	"github.com/student-records/student-api/internal/observability"
	"github.com/student-records/student-api/internal/platform/cache"
	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/reports"
	"github.com/student-records/student-api/internal/students"
	"github.com/student-records/student-api/internal/users"
	"github.com/student-records/student-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	startedAt := time.Now()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Reports fall back to uncached reads when Redis is down.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	guard := rbac.Middleware{Logger: logger, Observer: metrics}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() { _ = inspector.Close() }()

	authService := auth.NewService(auth.NewRepository(pool), tokens, logger)
	usersService := users.NewService(users.NewRepository(pool), cfg.BcryptCost)
	studentRepo := students.NewRepository(pool)
	studentsService := students.NewService(studentRepo)
	classRepo := classes.NewRepository(pool)
	classesService := classes.NewService(classRepo)
	gradeRepo := grades.NewRepository(pool)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL).WithLogger(logger)
	reportsService := reports.NewService(studentRepo, classRepo, gradeRepo, reportCache)
	invalidator := reports.NewInvalidator(reportCache, jobClient)
	gradesService := grades.NewService(gradeRepo, studentRepo, invalidator, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Verifier:           tokens,
		RBAC:               guard,
		Metrics:            metrics,
		StartedAt:          startedAt,
		AuthHandler:        auth.NewHandler(logger, authService, tokens),
		UsersHandler:       users.NewHandler(logger, usersService, guard),
		StudentsHandler:    students.NewHandler(logger, studentsService, guard),
		ClassesHandler:     classes.NewHandler(logger, classesService, guard),
		GradesHandler:      grades.NewHandler(logger, gradesService, guard),
		ReportsHandler:     reports.NewHandler(logger, reportsService, guard),
		PermissionsHandler: rbac.NewPermissionsHandler(guard),
		JobHandler:         jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
