package balance

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
)

// Repository defines storage operations for balance rows.
type Repository interface {
	// GetQuantity returns the current quantity for a pair.
	// A missing row is zero stock, not an error.
	GetQuantity(ctx context.Context, resourceID, unitID id.ID) (types.Quantity, error)

	// ApplyDelta adds a signed delta to the pair's row, creating the row
	// with quantity = delta when none exists.
	ApplyDelta(ctx context.Context, delta Delta) error

	// List returns all balance rows matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Balance, error)
}

// ListFilter for balance queries.
type ListFilter struct {
	ResourceIDs []id.ID
	UnitIDs     []id.ID
	ExcludeZero bool
	Limit       int
	Offset      int
}
