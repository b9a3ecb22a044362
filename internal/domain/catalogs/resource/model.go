// Package resource provides the Resource catalog: the stock keeping
// entries that receipt and shipment lines reference.
package resource

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/entity"
)

// Resource represents a stock keeping entry.
type Resource struct {
	entity.Catalog

	// Description is a free-form note
	Description string `db:"description" json:"description,omitempty"`
}

// NewResource creates a new Resource.
func NewResource(code, name string) *Resource {
	return &Resource{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (r *Resource) Validate(ctx context.Context) error {
	return r.Catalog.Validate(ctx)
}
