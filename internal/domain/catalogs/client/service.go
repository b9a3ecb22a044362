package client

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

// Service provides business logic for the Client catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Client service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// Create creates a new client, generating a code when blank.
func (s *Service) Create(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	if c.Code == "" {
		code, err := s.numerator.NextNumber(ctx, "CL", time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	} else if existing, err := s.repo.GetByCode(ctx, c.Code); err == nil && existing.ID != c.ID {
		return apperror.NewDuplicate("client", "code", c.Code)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
}

// GetByID retrieves a client by ID.
func (s *Service) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

// Update modifies an existing client.
func (s *Service) Update(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
}

// Archive marks a client as archived.
func (s *Service) Archive(ctx context.Context, clientID id.ID) error {
	return s.repo.SetArchived(ctx, clientID, true)
}

// Unarchive clears the archived mark.
func (s *Service) Unarchive(ctx context.Context, clientID id.ID) error {
	return s.repo.SetArchived(ctx, clientID, false)
}

// List retrieves clients with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Client], error) {
	return s.repo.List(ctx, filter)
}

// IsActive reports whether the client exists and is not archived.
func (s *Service) IsActive(ctx context.Context, clientID id.ID) (bool, error) {
	return s.repo.IsActive(ctx, clientID)
}
