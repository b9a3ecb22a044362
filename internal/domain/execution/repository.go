package execution

import (
	"context"
	"time"
)

// Repository defines storage operations for the execution ledger.
type Repository interface {
	// TryInsertRunning atomically inserts a running placeholder for
	// (name, day). Returns false without error when a row already
	// exists, meaning the day is already handled. Implementations rely
	// on a storage uniqueness constraint, not read-then-insert.
	TryInsertRunning(ctx context.Context, name string, day time.Time) (bool, error)

	// Complete updates the placeholder with the run's outcome.
	Complete(ctx context.Context, exec *Execution) error

	// Delete removes the record for (name, day) to force reprocessing.
	Delete(ctx context.Context, name string, day time.Time) error

	// Get retrieves the record for (name, day).
	Get(ctx context.Context, name string, day time.Time) (*Execution, error)

	// ListRecent returns the latest records for a worker, newest first.
	ListRecent(ctx context.Context, name string, limit int) ([]*Execution, error)
}
