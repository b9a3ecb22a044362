// Package domain provides shared business logic interfaces and types.
package domain

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/entity"
	"github.com/Skalersaas/warehouse/internal/core/id"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches against code/name/number fields
	Search string

	// IncludeArchived includes archived records
	IncludeArchived bool

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetByCode retrieves entity by code (unique within catalog)
	GetByCode(ctx context.Context, code string) (T, error)

	// Update modifies existing entity (with optimistic locking)
	Update(ctx context.Context, entity T) error

	// SetArchived sets or clears the archived mark
	SetArchived(ctx context.Context, id id.ID, archived bool) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// IsActive reports whether the entity exists and is not archived.
	// Document validation uses this before accepting line references.
	IsActive(ctx context.Context, id id.ID) (bool, error)
}
