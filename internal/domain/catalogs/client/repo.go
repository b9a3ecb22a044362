package client

import (
	"github.com/Skalersaas/warehouse/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]
}
