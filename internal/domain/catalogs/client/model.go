// Package client provides the Client catalog: the counterparties that
// shipment documents are addressed to.
package client

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/entity"
)

// Client represents a shipment counterparty.
type Client struct {
	entity.Catalog

	// Address is the delivery address
	Address string `db:"address" json:"address"`
}

// NewClient creates a new Client.
func NewClient(code, name, address string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(code, name),
		Address: address,
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Address == "" {
		return apperror.NewValidation("address is required").
			WithDetail("field", "address")
	}

	return nil
}
