package reports

import (
	"context"
	"fmt"
)

// RefreshEnqueuer schedules a background rebuild of a student's reports.
type RefreshEnqueuer interface {
	EnqueueReportRefresh(ctx context.Context, studentID string) error
}

// Invalidator drops cached reports after grade changes and asks the worker
// to warm them again.
type Invalidator struct {
	cache    *Cache
	enqueuer RefreshEnqueuer
}

// NewInvalidator builds an Invalidator. enqueuer may be nil.
func NewInvalidator(cache *Cache, enqueuer RefreshEnqueuer) *Invalidator {
	return &Invalidator{cache: cache, enqueuer: enqueuer}
}

// InvalidateStudent removes the cached reports of studentID.
func (i *Invalidator) InvalidateStudent(ctx context.Context, studentID string) error {
	if err := i.cache.Invalidate(ctx, studentID); err != nil {
		return fmt.Errorf("reports: invalidate %s: %w", studentID, err)
	}
	if i.enqueuer == nil {
		return nil
	}
	if err := i.enqueuer.EnqueueReportRefresh(ctx, studentID); err != nil {
		return fmt.Errorf("reports: enqueue refresh %s: %w", studentID, err)
	}
	return nil
}
