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
	"github.com/Skalersaas/warehouse/internal/domain/documents/receipt"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
)

const (
	receiptsTable     = "doc_receipts"
	receiptLinesTable = "doc_receipt_lines"
)

// Compile-time check that ReceiptRepo implements receipt.Repository.
var _ receipt.Repository = (*ReceiptRepo)(nil)

// ReceiptRepo implements receipt.Repository.
type ReceiptRepo struct {
	*BaseDocumentRepo[*receipt.Receipt]
}

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txManager *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			receiptsTable,
			postgres.ExtractDBColumns[receipt.Receipt](),
			func() *receipt.Receipt { return &receipt.Receipt{} },
		),
	}
}

// GetLines retrieves lines for a receipt.
func (r *ReceiptRepo) GetLines(ctx context.Context, docID id.ID) ([]receipt.ReceiptLine, error) {
	q := r.Builder().
		Select("line_id", "line_no", "resource_id", "unit_id", "quantity").
		From(receiptLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []receipt.ReceiptLine
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the lines of a receipt wholesale.
func (r *ReceiptRepo) SaveLines(ctx context.Context, docID id.ID, lines []receipt.ReceiptLine) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + receiptLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(receiptLinesTable).
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

// Delete removes the receipt and its lines.
func (r *ReceiptRepo) Delete(ctx context.Context, docID id.ID) error {
	deleteSQL := "DELETE FROM " + receiptLinesTable + " WHERE document_id = $1"
	if _, err := r.querier(ctx).Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return r.BaseDocumentRepo.Delete(ctx, docID)
}

// SetBalancePending flags or clears the pending-reconciliation mark.
func (r *ReceiptRepo) SetBalancePending(ctx context.Context, docID id.ID, pending bool) error {
	q := r.Builder().
		Update(receiptsTable).
		Set("balance_pending", pending).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set balance pending: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(receiptsTable, docID.String())
	}
	return nil
}

// List retrieves receipts with filtering.
func (r *ReceiptRepo) List(ctx context.Context, filter receipt.ListFilter) (domain.ListResult[*receipt.Receipt], error) {
	q := r.baseSelect()

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.BalancePending != nil {
		q = q.Where(squirrel.Eq{"balance_pending": *filter.BalancePending})
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"supplier_name": searchPattern},
		})
	}

	return r.listPage(ctx, q, filter.ListFilter)
}

// ListByDate returns all receipts (with lines) dated on the given day.
func (r *ReceiptRepo) ListByDate(ctx context.Context, day time.Time) ([]*receipt.Receipt, error) {
	q := r.baseSelect().
		Where(squirrel.GtOrEq{"date": day}).
		Where(squirrel.Lt{"date": day.AddDate(0, 0, 1)}).
		OrderBy("number")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*receipt.Receipt
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("select receipts: %w", err)
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
