package catalog_repo

import (
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/resource"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
)

const resourceTable = "cat_resources"

// Compile-time check that ResourceRepo implements resource.Repository.
var _ resource.Repository = (*ResourceRepo)(nil)

// ResourceRepo implements resource.Repository.
type ResourceRepo struct {
	*BaseCatalogRepo[*resource.Resource]
}

// NewResourceRepo creates a new resource repository.
func NewResourceRepo(txManager *postgres.TxManager) *ResourceRepo {
	return &ResourceRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			resourceTable,
			postgres.ExtractDBColumns[resource.Resource](),
			func() *resource.Resource { return &resource.Resource{} },
		),
	}
}
