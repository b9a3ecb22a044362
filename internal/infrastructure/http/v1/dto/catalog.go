package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/client"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/resource"
	"github.com/Skalersaas/warehouse/internal/domain/catalogs/unit"
)

// CreateResourceRequest creates a resource catalog entry.
type CreateResourceRequest struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// ToEntity converts the request to a Resource.
func (r *CreateResourceRequest) ToEntity() *resource.Resource {
	res := resource.NewResource(r.Code, r.Name)
	res.Description = r.Description
	return res
}

// UpdateResourceRequest updates a resource catalog entry.
type UpdateResourceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// ApplyTo applies the request fields to an existing Resource.
func (r *UpdateResourceRequest) ApplyTo(res *resource.Resource) {
	res.Name = r.Name
	res.Description = r.Description
}

// CreateUnitRequest creates a unit catalog entry.
type CreateUnitRequest struct {
	Code             string `json:"code,omitempty"`
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Symbol           string `json:"symbol" binding:"required"`
	ConversionFactor string `json:"conversionFactor,omitempty"`
	IsBase           bool   `json:"isBase,omitempty"`
}

// ToEntity converts the request to a Unit.
func (r *CreateUnitRequest) ToEntity() (*unit.Unit, error) {
	u := unit.NewUnit(r.Code, r.Name, r.Symbol, unit.UnitType(r.Type))
	if r.ConversionFactor != "" {
		factor, err := decimal.NewFromString(r.ConversionFactor)
		if err != nil {
			return nil, apperror.NewValidation("invalid conversion factor").
				WithDetail("conversionFactor", r.ConversionFactor)
		}
		u.ConversionFactor = factor
		u.IsBase = r.IsBase
	}
	return u, nil
}

// UpdateUnitRequest updates a unit catalog entry.
type UpdateUnitRequest struct {
	Name             string `json:"name" binding:"required"`
	Symbol           string `json:"symbol" binding:"required"`
	ConversionFactor string `json:"conversionFactor,omitempty"`
}

// ApplyTo applies the request fields to an existing Unit.
func (r *UpdateUnitRequest) ApplyTo(u *unit.Unit) error {
	u.Name = r.Name
	u.Symbol = r.Symbol
	if r.ConversionFactor != "" {
		factor, err := decimal.NewFromString(r.ConversionFactor)
		if err != nil {
			return apperror.NewValidation("invalid conversion factor").
				WithDetail("conversionFactor", r.ConversionFactor)
		}
		u.ConversionFactor = factor
	}
	return nil
}

// CreateClientRequest creates a client catalog entry.
type CreateClientRequest struct {
	Code    string `json:"code,omitempty"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// ToEntity converts the request to a Client.
func (r *CreateClientRequest) ToEntity() *client.Client {
	return client.NewClient(r.Code, r.Name, r.Address)
}

// UpdateClientRequest updates a client catalog entry.
type UpdateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// ApplyTo applies the request fields to an existing Client.
func (r *UpdateClientRequest) ApplyTo(c *client.Client) {
	c.Name = r.Name
	c.Address = r.Address
}
