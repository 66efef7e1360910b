package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/student-records/student-api/internal/app"
	"github.com/student-records/student-api/internal/classes"
	"github.com/student-records/student-api/internal/grades"
	jobmetrics "github.com/student-records/student-api/internal/jobs"
	"github.com/student-records/student-api/internal/platform/cache"
	"github.com/student-records/student-api/internal/platform/db"
	"github.com/student-records/student-api/internal/reports"
	"github.com/student-records/student-api/internal/students"
	"github.com/student-records/student-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	studentRepo := students.NewRepository(pool)
	gradeRepo := grades.NewRepository(pool)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL).WithLogger(logger)
	reportsService := reports.NewService(studentRepo, classes.NewRepository(pool), gradeRepo, reportCache)

	metrics := jobmetrics.NewMetrics(nil)
	refreshJob := jobs.NewReportRefreshJob(reportsService, logger, metrics)
	warmupJob := jobs.NewReportWarmupJob(reportsService, gradeRepo, logger, metrics)

	var cron []jobs.CronRegistration
	if cfg.ReportWarmupCron != "" {
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.ReportWarmupCron,
			Task:    jobs.NewReportWarmupTask(),
			Options: []asynq.Option{asynq.MaxRetry(1), asynq.Queue(jobs.QueueDefault)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportRefresh, Handler: refreshJob.Handle},
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
