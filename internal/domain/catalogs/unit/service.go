package unit

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

// Service provides business logic for the Unit catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Unit service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new unit, generating a code when blank and enforcing
// symbol uniqueness.
func (s *Service) Create(ctx context.Context, u *Unit) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}

	if u.Code == "" {
		code, err := s.numerator.NextNumber(ctx, "UN", time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		u.Code = code
	}

	if existing, err := s.repo.FindBySymbol(ctx, u.Symbol); err == nil && existing.ID != u.ID {
		return apperror.NewConflict("unit with this symbol already exists").
			WithDetail("symbol", u.Symbol)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, u)
	})
}

// GetByID retrieves a unit by ID.
func (s *Service) GetByID(ctx context.Context, unitID id.ID) (*Unit, error) {
	return s.repo.GetByID(ctx, unitID)
}

// Update modifies an existing unit.
func (s *Service) Update(ctx context.Context, u *Unit) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, u)
	})
}

// Archive marks a unit as archived.
func (s *Service) Archive(ctx context.Context, unitID id.ID) error {
	return s.repo.SetArchived(ctx, unitID, true)
}

// Unarchive clears the archived mark.
func (s *Service) Unarchive(ctx context.Context, unitID id.ID) error {
	return s.repo.SetArchived(ctx, unitID, false)
}

// List retrieves units with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Unit], error) {
	return s.repo.List(ctx, filter)
}

// IsActive reports whether the unit exists and is not archived.
func (s *Service) IsActive(ctx context.Context, unitID id.ID) (bool, error) {
	return s.repo.IsActive(ctx, unitID)
}
