package execution

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Skalersaas/warehouse/pkg/logger"
)

// Service provides the execution ledger state machine:
// NotStarted → Running → Completed(success|failure).
type Service struct {
	repo Repository
}

// NewService creates a new execution ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TryStart attempts to claim the (name, date) slot. Returns true when
// this caller owns the run; false when the day is already handled (or
// another instance claimed it first).
func (s *Service) TryStart(ctx context.Context, name string, date time.Time) (bool, error) {
	started, err := s.repo.TryInsertRunning(ctx, name, Day(date))
	if err != nil {
		return false, fmt.Errorf("try start execution: %w", err)
	}
	if !started {
		logger.Debug(ctx, "execution already recorded, skipping",
			"worker", name, "date", Day(date).Format("2006-01-02"))
	}
	return started, nil
}

// Complete records the run's outcome on the running placeholder.
// The error message is truncated to the storage bound.
func (s *Service) Complete(ctx context.Context, name string, date time.Time, res Result) error {
	msg := truncateMessage(res.ErrorMessage, MaxErrorMessageLen)

	exec := &Execution{
		WorkerName:         name,
		ExecutionDate:      Day(date),
		LastExecutedAt:     time.Now().UTC(),
		DocumentsProcessed: res.DocumentsProcessed,
		ErrorsCount:        res.ErrorsCount,
		Completed:          true,
		Success:            res.Success,
		ErrorMessage:       msg,
	}

	if err := s.repo.Complete(ctx, exec); err != nil {
		return fmt.Errorf("complete execution: %w", err)
	}
	return nil
}

// Reset deletes the record for (name, date) so the day can be
// reprocessed. Administrative/manual override only.
func (s *Service) Reset(ctx context.Context, name string, date time.Time) error {
	if err := s.repo.Delete(ctx, name, Day(date)); err != nil {
		return fmt.Errorf("reset execution: %w", err)
	}
	logger.Info(ctx, "execution record reset",
		"worker", name, "date", Day(date).Format("2006-01-02"))
	return nil
}

// Get retrieves the record for (name, date).
func (s *Service) Get(ctx context.Context, name string, date time.Time) (*Execution, error) {
	return s.repo.Get(ctx, name, Day(date))
}

// ListRecent returns the latest records for a worker.
func (s *Service) ListRecent(ctx context.Context, name string, limit int) ([]*Execution, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.repo.ListRecent(ctx, name, limit)
}

// truncateMessage cuts s to at most max bytes without splitting a
// multi-byte rune.
func truncateMessage(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
