package resource

import (
	"github.com/Skalersaas/warehouse/internal/domain"
)

// Repository defines the interface for Resource persistence.
type Repository interface {
	domain.CatalogRepository[*Resource]
}
