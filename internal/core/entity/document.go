package entity

import (
	"context"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
)

// Document is the base type for business transactions (receipts, shipments).
type Document struct {
	BaseDocument

	// Number is the business document number (auto-generated when blank,
	// unique within document type)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// BalancePending marks a document that persisted but whose balance
	// side-effect failed. The reconciliation worker re-applies such
	// documents; until then callers see a success-with-warning.
	BalancePending bool `db:"balance_pending" json:"balancePending,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID and today's date.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// DateOnly returns the document date truncated to its calendar day (UTC).
// Reconciliation groups documents by this value.
func (d *Document) DateOnly() time.Time {
	return time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// MarkBalancePending flags the document for reconciliation.
func (d *Document) MarkBalancePending() {
	d.BalancePending = true
	d.Touch()
}

// ClearBalancePending resets the flag after a successful re-apply.
func (d *Document) ClearBalancePending() {
	d.BalancePending = false
	d.Touch()
}
