package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
)

const balancesTable = "balances"

// Compile-time check that BalanceRepo implements balance.Repository.
var _ balance.Repository = (*BalanceRepo)(nil)

// BalanceRepo implements balance.Repository over the balances table,
// one row per (resource_id, unit_id).
type BalanceRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewBalanceRepo creates a new balance repository.
func NewBalanceRepo(txManager *TxManager) *BalanceRepo {
	return &BalanceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetQuantity returns the current quantity for a pair. A missing row is
// zero stock, not an error.
func (r *BalanceRepo) GetQuantity(ctx context.Context, resourceID, unitID id.ID) (types.Quantity, error) {
	q := r.builder.Select("quantity").
		From(balancesTable).
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"unit_id":     unitID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var scaled int64
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &scaled, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(scaled), nil
}

// ApplyDelta adds a signed delta to the pair's row, creating the row when
// none exists. A single upsert keeps the read-modify-write inside the
// database.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, delta balance.Delta) error {
	sql := `
		INSERT INTO balances (resource_id, unit_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (resource_id, unit_id)
		DO UPDATE SET quantity = balances.quantity + EXCLUDED.quantity,
		              updated_at = EXCLUDED.updated_at
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql, delta.ResourceID, delta.UnitID, delta.Quantity.Int64Scaled(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("apply delta: %w", err)
	}
	return nil
}

// List returns balance rows matching the filter, ordered by pair.
func (r *BalanceRepo) List(ctx context.Context, filter balance.ListFilter) ([]balance.Balance, error) {
	q := r.builder.Select("resource_id", "unit_id", "quantity", "updated_at").
		From(balancesTable)

	if len(filter.ResourceIDs) > 0 {
		q = q.Where(squirrel.Eq{"resource_id": filter.ResourceIDs})
	}
	if len(filter.UnitIDs) > 0 {
		q = q.Where(squirrel.Eq{"unit_id": filter.UnitIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	q = q.OrderBy("resource_id", "unit_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []balanceRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	balances := make([]balance.Balance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, balance.Balance{
			ResourceID: row.ResourceID,
			UnitID:     row.UnitID,
			Quantity:   types.NewQuantityFromInt64Scaled(row.Quantity),
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return balances, nil
}

// balanceRow is the storage shape: quantity is a scaled integer column.
type balanceRow struct {
	ResourceID id.ID     `db:"resource_id"`
	UnitID     id.ID     `db:"unit_id"`
	Quantity   int64     `db:"quantity"`
	UpdatedAt  time.Time `db:"updated_at"`
}
