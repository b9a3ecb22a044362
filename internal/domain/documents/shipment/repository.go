package shipment

import (
	"context"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain"
)

// Repository defines operations for shipment documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Shipment) error
	GetByID(ctx context.Context, docID id.ID) (*Shipment, error)
	GetByNumber(ctx context.Context, number string) (*Shipment, error)
	Update(ctx context.Context, doc *Shipment) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]ShipmentLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []ShipmentLine) error

	// UpdateStatus persists a status transition with optimistic locking.
	UpdateStatus(ctx context.Context, doc *Shipment) error

	// List retrieves shipments with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Shipment], error)

	// ListSignedByDate returns all Signed shipments (with lines) whose
	// business date falls on the given calendar day. Used by
	// reconciliation; Draft shipments never affect balance.
	ListSignedByDate(ctx context.Context, day time.Time) ([]*Shipment, error)
}

// ListFilter for filtering shipments.
type ListFilter struct {
	domain.ListFilter

	ClientID *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
