// Package execution provides the worker execution ledger: one row per
// (worker name, execution date) making scheduled jobs idempotent per
// calendar day.
package execution

import (
	"time"
)

// MaxErrorMessageLen bounds the stored error message.
const MaxErrorMessageLen = 1000

// Execution records one worker run for one calendar day.
// Conceptually unique per (WorkerName, ExecutionDate); the storage layer
// enforces this with a uniqueness constraint so concurrent starts race
// safely (one insert wins).
type Execution struct {
	WorkerName    string    `db:"worker_name" json:"workerName"`
	ExecutionDate time.Time `db:"execution_date" json:"executionDate"`

	LastExecutedAt     time.Time `db:"last_executed_at" json:"lastExecutedAt"`
	DocumentsProcessed int       `db:"documents_processed" json:"documentsProcessed"`
	ErrorsCount        int       `db:"errors_count" json:"errorsCount"`
	Completed          bool      `db:"completed" json:"completed"`
	Success            bool      `db:"success" json:"success"`
	ErrorMessage       string    `db:"error_message" json:"errorMessage,omitempty"`
}

// Day truncates a timestamp to its calendar day in UTC. All ledger
// lookups key on this value.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Result summarizes a finished run.
type Result struct {
	DocumentsProcessed int
	ErrorsCount        int
	Success            bool
	ErrorMessage       string
}
