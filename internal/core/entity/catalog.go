package entity

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
)

// Catalog is the base type for reference data (resources, units, clients).
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique within catalog)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Archived entries are kept for history but cannot be referenced
	// by new documents.
	Archived bool `db:"archived" json:"archived"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	// Code can be auto-generated, so it is optional at creation.
	return nil
}

// Archive marks the entry as archived.
func (c *Catalog) Archive() {
	c.Archived = true
	c.Touch()
}

// Unarchive clears the archived mark.
func (c *Catalog) Unarchive() {
	c.Archived = false
	c.Touch()
}
