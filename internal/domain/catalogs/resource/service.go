package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/tx"
	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/pkg/numerator"
)

// Service provides business logic for the Resource catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Resource service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new resource, generating a code when blank.
func (s *Service) Create(ctx context.Context, res *Resource) error {
	if err := res.Validate(ctx); err != nil {
		return err
	}

	if res.Code == "" {
		code, err := s.numerator.NextNumber(ctx, "RES", time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		res.Code = code
	} else if existing, err := s.repo.GetByCode(ctx, res.Code); err == nil && existing.ID != res.ID {
		return apperror.NewDuplicate("resource", "code", res.Code)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, res)
	})
}

// GetByID retrieves a resource by ID.
func (s *Service) GetByID(ctx context.Context, resID id.ID) (*Resource, error) {
	return s.repo.GetByID(ctx, resID)
}

// Update modifies an existing resource.
func (s *Service) Update(ctx context.Context, res *Resource) error {
	if err := res.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, res)
	})
}

// Archive marks a resource as archived; new documents cannot reference it.
func (s *Service) Archive(ctx context.Context, resID id.ID) error {
	return s.repo.SetArchived(ctx, resID, true)
}

// Unarchive clears the archived mark.
func (s *Service) Unarchive(ctx context.Context, resID id.ID) error {
	return s.repo.SetArchived(ctx, resID, false)
}

// List retrieves resources with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Resource], error) {
	return s.repo.List(ctx, filter)
}

// IsActive reports whether the resource exists and is not archived.
func (s *Service) IsActive(ctx context.Context, resID id.ID) (bool, error) {
	return s.repo.IsActive(ctx, resID)
}
