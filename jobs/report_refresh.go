package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/student-records/student-api/internal/jobs"
	"github.com/student-records/student-api/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportRefresher rebuilds and stores a student's reports.
type ReportRefresher interface {
	Refresh(ctx context.Context, studentID string) error
}

// ReportRefreshJob handles TaskReportRefresh.
type ReportRefreshJob struct {
	Reports ReportRefresher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportRefreshJob wires dependencies for the refresh handler.
func NewReportRefreshJob(reports ReportRefresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportRefreshJob {
	return &ReportRefreshJob{Reports: reports, Logger: logger, Metrics: metrics}
}

// Handle processes report refresh tasks.
func (j *ReportRefreshJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Reports == nil {
		return errors.New("report refresh: handler not configured")
	}
	var payload ReportRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.StudentID == "" {
		return fmt.Errorf("report refresh: bad payload: %w", asynq.SkipRetry)
	}

	tracker := metricsOrDefault(j.Metrics).Track(TaskReportRefresh)
	defer func() { err = tracker.End(err) }()

	logger := loggerOrDefault(j.Logger).With(slog.String("job", TaskReportRefresh), slog.String("student_id", payload.StudentID))
	start := time.Now()
	if err := j.Reports.Refresh(ctx, payload.StudentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			logger.Info("student removed, skipping refresh")
			return nil
		}
		logger.Error("refresh reports", slog.Any("error", err))
		return err
	}
	metricsOrDefault(j.Metrics).AddWarmed(TaskReportRefresh, 1)
	logger.Debug("refreshed reports", slog.Duration("duration", time.Since(start)))
	return nil
}

// StudentLister enumerates students that currently have grades.
type StudentLister interface {
	StudentIDsWithGrades(ctx context.Context) ([]string, error)
}

// ReportWarmupJob rebuilds every graded student's reports.
type ReportWarmupJob struct {
	Reports  ReportRefresher
	Students StudentLister
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(reports ReportRefresher, students StudentLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{Reports: reports, Students: students, Logger: logger, Metrics: metrics}
}

// Handle processes warmup tasks. Failures for individual students are
// logged and do not stop the run.
func (j *ReportWarmupJob) Handle(ctx context.Context, _ *asynq.Task) (err error) {
	if j == nil || j.Reports == nil || j.Students == nil {
		return errors.New("report warmup: handler not configured")
	}
	tracker := metricsOrDefault(j.Metrics).Track(TaskReportWarmup)
	defer func() { err = tracker.End(err) }()

	logger := loggerOrDefault(j.Logger).With(slog.String("job", TaskReportWarmup))
	ids, err := j.Students.StudentIDsWithGrades(ctx)
	if err != nil {
		logger.Error("list graded students", slog.Any("error", err))
		return err
	}
	warmed, failed := 0, 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.Reports.Refresh(ctx, id); err != nil {
			failed++
			logger.Warn("warm student", slog.String("student_id", id), slog.Any("error", err))
			continue
		}
		warmed++
	}
	metricsOrDefault(j.Metrics).AddWarmed(TaskReportWarmup, warmed)
	logger.Info("completed report warmup", slog.Int("warmed", warmed), slog.Int("failed", failed))
	return nil
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
