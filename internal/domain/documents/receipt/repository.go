package receipt

import (
	"context"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain"
)

// Repository defines operations for receipt documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Receipt) error
	GetByID(ctx context.Context, docID id.ID) (*Receipt, error)
	GetByNumber(ctx context.Context, number string) (*Receipt, error)
	Update(ctx context.Context, doc *Receipt) error

	// Delete removes the document and its lines. Receipts are deleted
	// physically: a deleted receipt must stop counting toward balance
	// reconciliation for its day.
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]ReceiptLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []ReceiptLine) error

	// SetBalancePending flags or clears the pending-reconciliation mark.
	SetBalancePending(ctx context.Context, docID id.ID, pending bool) error

	// List retrieves receipts with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error)

	// ListByDate returns all receipts (with lines) whose business date
	// falls on the given calendar day. Used by reconciliation.
	ListByDate(ctx context.Context, day time.Time) ([]*Receipt, error)
}

// ListFilter for filtering receipts.
type ListFilter struct {
	domain.ListFilter

	DateFrom       *time.Time
	DateTo         *time.Time
	BalancePending *bool
}
