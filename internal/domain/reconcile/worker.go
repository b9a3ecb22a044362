package reconcile

import (
	"context"
	"time"

	"github.com/Skalersaas/warehouse/pkg/logger"
)

// errorBackoff is how long the worker waits after a failed pass before
// trying the same day again.
const errorBackoff = time.Hour

// Worker is the long-lived scheduling loop around the reconciliation
// service. Exactly one instance should run per deployment; the execution
// ledger keeps accidental extras harmless.
type Worker struct {
	service *Service
	now     func() time.Time
	backoff time.Duration
}

// NewWorker creates the reconciliation worker.
func NewWorker(service *Service) *Worker {
	return &Worker{service: service, now: time.Now, backoff: errorBackoff}
}

// Run blocks until ctx is cancelled. Each iteration sleeps until the
// next local midnight and then reconciles the new day. A failed pass is
// retried for the same date after a fixed backoff until it lands or the
// day's ledger slot is claimed; an interrupt during sleep exits cleanly
// without running.
func (w *Worker) Run(ctx context.Context) {
	logger.Info(ctx, "reconciliation worker started")

	for {
		wait := w.untilNextMidnight()
		logger.Debug(ctx, "reconciliation worker sleeping", "duration", wait.String())

		if !sleep(ctx, wait) {
			logger.Info(ctx, "reconciliation worker stopped")
			return
		}

		if !w.runWithRetry(ctx, w.now()) {
			logger.Info(ctx, "reconciliation worker stopped")
			return
		}
	}
}

// runWithRetry reconciles date, retrying the same date after each
// failure. Returns false only when ctx is cancelled mid-backoff.
func (w *Worker) runWithRetry(ctx context.Context, date time.Time) bool {
	for {
		err := w.service.RunForDate(ctx, date, false)
		if err == nil {
			return true
		}
		logger.Error(ctx, "reconciliation pass failed, backing off",
			"date", date.Format("2006-01-02"),
			"backoff", w.backoff.String(), "error", err)
		if !sleep(ctx, w.backoff) {
			return false
		}
	}
}

// RunOnce reconciles the given date immediately, outside the schedule.
// Used at startup and by the manual trigger endpoint.
func (w *Worker) RunOnce(ctx context.Context, date time.Time, force bool) error {
	return w.service.RunForDate(ctx, date, force)
}

func (w *Worker) untilNextMidnight() time.Duration {
	now := w.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}

// sleep waits for d or until ctx is done; returns false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
