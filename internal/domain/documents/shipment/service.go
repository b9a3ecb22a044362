package shipment

import (
	"context"
	"fmt"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/tx"
	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
	"github.com/Skalersaas/warehouse/pkg/logger"
	"github.com/Skalersaas/warehouse/pkg/numerator"
)

// documentType as recorded in the audit log.
const documentType = "Shipment"

// CatalogChecker reports whether a referenced catalog entry exists and
// is not archived.
type CatalogChecker interface {
	IsActive(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business operations for shipment documents.
type Service struct {
	repo      Repository
	balances  *balance.Service
	clients   CatalogChecker
	resources CatalogChecker
	units     CatalogChecker
	numerator *numerator.Service
	txManager tx.Manager
	audit     domain.AuditRecorder // optional
}

// NewService creates a new shipment service.
func NewService(
	repo Repository,
	balances *balance.Service,
	clients CatalogChecker,
	resources CatalogChecker,
	units CatalogChecker,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		balances:  balances,
		clients:   clients,
		resources: resources,
		units:     units,
		numerator: num,
		txManager: txManager,
	}
}

// WithAudit attaches an audit recorder.
func (s *Service) WithAudit(audit domain.AuditRecorder) *Service {
	s.audit = audit
	return s
}

// Create persists a new shipment in Draft. Balance is not touched.
func (s *Service) Create(ctx context.Context, doc *Shipment) error {
	doc.Status = StatusDraft

	if err := s.validate(ctx, doc); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.NextNumber(ctx, "SHP", time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	} else if existing, err := s.repo.GetByNumber(ctx, doc.Number); err == nil && existing.ID != doc.ID {
		return apperror.NewDuplicate("shipment", "number", doc.Number)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, doc.ID, domain.AuditActionCreate, doc)
	logger.Info(ctx, "shipment created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a shipment with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Shipment, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update replaces the shipment's items. Permitted only while Draft.
func (s *Service) Update(ctx context.Context, doc *Shipment) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if err := current.CanModify(); err != nil {
		return err
	}

	doc.Status = current.Status
	if err := s.validate(ctx, doc); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, doc.ID, domain.AuditActionUpdate, doc)
	return nil
}

// Delete removes a shipment. Permitted only while Draft; a Draft never
// touched balance, so nothing is reversed.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanDelete(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}

	s.record(ctx, docID, domain.AuditActionDelete, doc)
	logger.Info(ctx, "shipment deleted", "id", docID, "number", doc.Number)
	return nil
}

// Sign transitions Draft → Signed: every line must have sufficient
// balance, then balance is decremented and the status persisted, all in
// one transaction. On insufficiency the document stays Draft and no
// balance row changes.
func (s *Service) Sign(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanSign(); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.balances.ValidateSufficiency(ctx, doc.BalanceLines()); err != nil {
			return err
		}
		if err := s.balances.OnShipmentSigned(ctx, doc.BalanceLines()); err != nil {
			return err
		}
		doc.MarkSigned()
		return s.repo.UpdateStatus(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.record(ctx, docID, domain.AuditActionSign, doc)
	logger.Info(ctx, "shipment signed", "id", docID, "number", doc.Number)
	return nil
}

// Revoke transitions Signed → Draft, incrementing balance back by the
// exact line quantities.
func (s *Service) Revoke(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanRevoke(); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.balances.OnShipmentRevoked(ctx, doc.BalanceLines()); err != nil {
			return err
		}
		doc.MarkDraft()
		return s.repo.UpdateStatus(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.record(ctx, docID, domain.AuditActionRevoke, doc)
	logger.Info(ctx, "shipment revoked", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves shipments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Shipment], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) validate(ctx context.Context, doc *Shipment) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	active, err := s.clients.IsActive(ctx, doc.ClientID)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !active {
		return apperror.NewValidation("client does not exist or is archived").
			WithDetail("clientId", doc.ClientID.String())
	}

	for i, line := range doc.Lines {
		active, err := s.resources.IsActive(ctx, line.ResourceID)
		if err != nil {
			return fmt.Errorf("check resource: %w", err)
		}
		if !active {
			return apperror.NewValidation("resource does not exist or is archived").
				WithDetail("lineNo", i+1).
				WithDetail("resourceId", line.ResourceID.String())
		}

		active, err = s.units.IsActive(ctx, line.UnitID)
		if err != nil {
			return fmt.Errorf("check unit: %w", err)
		}
		if !active {
			return apperror.NewValidation("unit does not exist or is archived").
				WithDetail("lineNo", i+1).
				WithDetail("unitId", line.UnitID.String())
		}
	}

	return nil
}

func (s *Service) record(ctx context.Context, docID id.ID, action domain.AuditAction, changes any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, documentType, docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "id", docID, "action", action, "error", err)
	}
}
