package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
)

const (
	shipmentsTable     = "doc_shipments"
	shipmentLinesTable = "doc_shipment_lines"
)

// Compile-time check that ShipmentRepo implements shipment.Repository.
var _ shipment.Repository = (*ShipmentRepo)(nil)

// ShipmentRepo implements shipment.Repository.
type ShipmentRepo struct {
	*BaseDocumentRepo[*shipment.Shipment]
}

// NewShipmentRepo creates a new shipment repository.
func NewShipmentRepo(txManager *postgres.TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			shipmentsTable,
			postgres.ExtractDBColumns[shipment.Shipment](),
			func() *shipment.Shipment { return &shipment.Shipment{} },
		),
	}
}

// GetLines retrieves lines for a shipment.
func (r *ShipmentRepo) GetLines(ctx context.Context, docID id.ID) ([]shipment.ShipmentLine, error) {
	q := r.Builder().
		Select("line_id", "line_no", "resource_id", "unit_id", "quantity").
		From(shipmentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []shipment.ShipmentLine
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the lines of a shipment wholesale.
func (r *ShipmentRepo) SaveLines(ctx context.Context, docID id.ID, lines []shipment.ShipmentLine) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + shipmentLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(shipmentLinesTable).
		Columns("line_id", "document_id", "line_no", "resource_id", "unit_id", "quantity")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.ResourceID, line.UnitID, line.Quantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// Delete removes the shipment and its lines.
func (r *ShipmentRepo) Delete(ctx context.Context, docID id.ID) error {
	deleteSQL := "DELETE FROM " + shipmentLinesTable + " WHERE document_id = $1"
	if _, err := r.querier(ctx).Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return r.BaseDocumentRepo.Delete(ctx, docID)
}

// UpdateStatus persists a status transition with optimistic locking.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, doc *shipment.Shipment) error {
	// The model's Mark* transitions already bumped the version; guard on
	// the pre-transition value.
	prevVersion := doc.Version - 1

	q := r.Builder().
		Update(shipmentsTable).
		Set("status", doc.Status).
		Set("version", doc.Version).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": prevVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(shipmentsTable, doc.ID)
	}
	return nil
}

// List retrieves shipments with filtering.
func (r *ShipmentRepo) List(ctx context.Context, filter shipment.ListFilter) (domain.ListResult[*shipment.Shipment], error) {
	q := r.baseSelect()

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	return r.listPage(ctx, q, filter.ListFilter)
}

// ListSignedByDate returns all Signed shipments (with lines) dated on
// the given day.
func (r *ShipmentRepo) ListSignedByDate(ctx context.Context, day time.Time) ([]*shipment.Shipment, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"status": shipment.StatusSigned}).
		Where(squirrel.GtOrEq{"date": day}).
		Where(squirrel.Lt{"date": day.AddDate(0, 0, 1)}).
		OrderBy("number")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*shipment.Shipment
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("select shipments: %w", err)
	}

	for _, doc := range docs {
		lines, err := r.GetLines(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		doc.Lines = lines
	}
	return docs, nil
}
