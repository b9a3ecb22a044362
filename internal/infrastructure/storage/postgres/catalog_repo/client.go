package catalog_repo

import (
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/client"
	"github.com/Skalersaas/warehouse/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// Compile-time check that ClientRepo implements client.Repository.
var _ client.Repository = (*ClientRepo)(nil)

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			clientTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}
