package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportRefresh rebuilds the cached reports of one student.
	TaskReportRefresh = "report:refresh"
	// TaskReportWarmup rebuilds the cached reports of every graded student.
	TaskReportWarmup = "report:warmup"
)

// ReportRefreshPayload identifies the student whose reports are rebuilt.
type ReportRefreshPayload struct {
	StudentID string `json:"studentId"`
}

// NewReportRefreshTask constructs an Asynq task.
func NewReportRefreshTask(studentID string) (*asynq.Task, error) {
	if studentID == "" {
		return nil, errors.New("jobs: student id required")
	}
	data, err := json.Marshal(ReportRefreshPayload{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportRefresh, data), nil
}

// NewReportWarmupTask constructs the periodic warmup task.
func NewReportWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportWarmup, nil)
}

func fmtArgs(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
