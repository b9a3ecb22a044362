package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Skalersaas/warehouse/internal/domain/execution"
)

const executionsTable = "worker_executions"

// Compile-time check that ExecutionRepo implements execution.Repository.
var _ execution.Repository = (*ExecutionRepo)(nil)

// ExecutionRepo implements execution.Repository. The table carries a
// unique constraint on (worker_name, execution_date); TryInsertRunning
// leans on it so concurrent starts race safely.
type ExecutionRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewExecutionRepo creates a new execution ledger repository.
func NewExecutionRepo(txManager *TxManager) *ExecutionRepo {
	return &ExecutionRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// TryInsertRunning inserts a running placeholder for (name, day).
// Returns false when a row already exists.
func (r *ExecutionRepo) TryInsertRunning(ctx context.Context, name string, day time.Time) (bool, error) {
	sql := `
		INSERT INTO worker_executions (
			worker_name, execution_date, last_executed_at,
			documents_processed, errors_count, completed, success, error_message
		) VALUES ($1, $2, $3, 0, 0, false, false, '')
		ON CONFLICT (worker_name, execution_date) DO NOTHING
	`

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, name, day, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert execution: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Complete updates the placeholder with the run's outcome.
func (r *ExecutionRepo) Complete(ctx context.Context, exec *execution.Execution) error {
	q := r.builder.Update(executionsTable).
		Set("last_executed_at", exec.LastExecutedAt).
		Set("documents_processed", exec.DocumentsProcessed).
		Set("errors_count", exec.ErrorsCount).
		Set("completed", exec.Completed).
		Set("success", exec.Success).
		Set("error_message", exec.ErrorMessage).
		Where(squirrel.Eq{
			"worker_name":    exec.WorkerName,
			"execution_date": exec.ExecutionDate,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("complete execution: %w", err)
	}
	return nil
}

// Delete removes the record for (name, day).
func (r *ExecutionRepo) Delete(ctx context.Context, name string, day time.Time) error {
	q := r.builder.Delete(executionsTable).
		Where(squirrel.Eq{
			"worker_name":    name,
			"execution_date": day,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete execution: %w", err)
	}
	return nil
}

// Get retrieves the record for (name, day), or nil when none exists.
func (r *ExecutionRepo) Get(ctx context.Context, name string, day time.Time) (*execution.Execution, error) {
	q := r.builder.Select(executionColumns()...).
		From(executionsTable).
		Where(squirrel.Eq{
			"worker_name":    name,
			"execution_date": day,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var exec execution.Execution
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &exec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get execution: %w", err)
	}
	return &exec, nil
}

// ListRecent returns the latest records for a worker, newest first.
func (r *ExecutionRepo) ListRecent(ctx context.Context, name string, limit int) ([]*execution.Execution, error) {
	q := r.builder.Select(executionColumns()...).
		From(executionsTable).
		Where(squirrel.Eq{"worker_name": name}).
		OrderBy("execution_date DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var execs []*execution.Execution
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &execs, sql, args...); err != nil {
		return nil, fmt.Errorf("select executions: %w", err)
	}
	return execs, nil
}

func executionColumns() []string {
	return []string{
		"worker_name", "execution_date", "last_executed_at",
		"documents_processed", "errors_count", "completed", "success", "error_message",
	}
}
