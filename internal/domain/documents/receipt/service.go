package receipt

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
const documentType = "Receipt"

// CatalogChecker reports whether a referenced catalog entry exists and
// is not archived.
type CatalogChecker interface {
	IsActive(ctx context.Context, id id.ID) (bool, error)
}

// Service provides business operations for receipt documents.
type Service struct {
	repo      Repository
	balances  *balance.Service
	resources CatalogChecker
	units     CatalogChecker
	numerator *numerator.Service
	txManager tx.Manager
	audit     domain.AuditRecorder // optional
}

// NewService creates a new receipt service.
func NewService(
	repo Repository,
	balances *balance.Service,
	resources CatalogChecker,
	units CatalogChecker,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		balances:  balances,
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

// Create persists a new receipt and applies its lines to balance.
//
// The document and the balance rows are separate aggregates without a
// shared transaction: if the document persisted but the balance update
// failed, the receipt is kept and flagged balance_pending for the
// reconciliation worker instead of being rolled back.
func (s *Service) Create(ctx context.Context, doc *Receipt) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkLineReferences(ctx, doc); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.NextNumber(ctx, "RCP", time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	} else if existing, err := s.repo.GetByNumber(ctx, doc.Number); err == nil && existing.ID != doc.ID {
		return apperror.NewDuplicate("receipt", "number", doc.Number)
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

	if err := s.balances.OnReceiptCreated(ctx, doc.BalanceLines()); err != nil {
		logger.Warn(ctx, "receipt created but balance update failed",
			"id", doc.ID, "number", doc.Number, "error", err)
		doc.MarkBalancePending()
		if flagErr := s.repo.SetBalancePending(ctx, doc.ID, true); flagErr != nil {
			logger.Error(ctx, "failed to flag receipt for reconciliation",
				"id", doc.ID, "error", flagErr)
		}
	}

	s.record(ctx, doc.ID, domain.AuditActionCreate, doc)
	logger.Info(ctx, "receipt created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a receipt with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
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

// Update replaces the receipt's items wholesale and applies the netted
// per-pair delta to balance. Pairs whose quantity did not change are
// skipped; an update whose netted deduction would drive a balance
// negative is rejected as a whole.
func (s *Service) Update(ctx context.Context, doc *Receipt) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkLineReferences(ctx, doc); err != nil {
		return err
	}

	oldLines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get existing lines: %w", err)
	}
	old := &Receipt{Lines: oldLines}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.balances.OnReceiptUpdated(ctx, old.BalanceLines(), doc.BalanceLines())
	})
	if err != nil {
		return err
	}

	s.record(ctx, doc.ID, domain.AuditActionUpdate, doc)
	logger.Info(ctx, "receipt updated", "id", doc.ID, "number", doc.Number)
	return nil
}

// Delete removes a receipt, reversing its effect on balance. The delete
// is rejected without mutation if reversing any line would drive the
// touched balance negative.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.balances.ValidateSufficiency(ctx, doc.BalanceLines()); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return s.balances.OnReceiptDeleted(ctx, doc.BalanceLines())
	})
	if err != nil {
		return err
	}

	s.record(ctx, docID, domain.AuditActionDelete, doc)
	logger.Info(ctx, "receipt deleted", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error) {
	return s.repo.List(ctx, filter)
}

// checkLineReferences rejects lines naming unknown or archived
// resources/units.
func (s *Service) checkLineReferences(ctx context.Context, doc *Receipt) error {
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
