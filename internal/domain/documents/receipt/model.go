// Package receipt provides the Receipt document: inbound stock
// movements that always add to balance.
package receipt

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/entity"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
)

// Receipt represents an inbound goods document.
type Receipt struct {
	entity.Document

	// Supplier reference, free-form (receipts are not gated on a
	// counterparty catalog the way shipments are)
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Table part: received goods
	Lines []ReceiptLine `db:"-" json:"lines"`
}

// ReceiptLine represents one line of a receipt.
type ReceiptLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ResourceID id.ID          `db:"resource_id" json:"resourceId"`
	UnitID     id.ID          `db:"unit_id" json:"unitId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
}

// NewReceipt creates a new receipt document.
func NewReceipt() *Receipt {
	return &Receipt{
		Document: entity.NewDocument(),
		Lines:    make([]ReceiptLine, 0),
	}
}

// AddLine appends a line to the receipt.
func (r *Receipt) AddLine(resourceID, unitID id.ID, quantity types.Quantity) {
	r.Lines = append(r.Lines, ReceiptLine{
		LineID:     id.New(),
		LineNo:     len(r.Lines) + 1,
		ResourceID: resourceID,
		UnitID:     unitID,
		Quantity:   quantity,
	})
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range r.Lines {
		if id.IsNil(line.ResourceID) {
			return apperror.NewValidation("resource is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if id.IsNil(line.UnitID) {
			return apperror.NewValidation("unit is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// BalanceLines converts the table part to balance engine input.
func (r *Receipt) BalanceLines() []balance.Line {
	lines := make([]balance.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, balance.Line{
			ResourceID: l.ResourceID,
			UnitID:     l.UnitID,
			Quantity:   l.Quantity,
		})
	}
	return lines
}
