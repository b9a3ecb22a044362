package unit

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/domain"
)

// Repository defines the interface for Unit persistence.
type Repository interface {
	domain.CatalogRepository[*Unit]

	// FindBySymbol retrieves unit by symbol (unique).
	FindBySymbol(ctx context.Context, symbol string) (*Unit, error)
}
