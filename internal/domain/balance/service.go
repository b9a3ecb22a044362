package balance

import (
	"context"
	"fmt"
	"sort"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/tx"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/pkg/logger"
)

// Service provides business operations for inventory balances.
// Document services call into it on every balance-affecting transition;
// the reconciliation worker calls the same BulkUpdate entry point.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new balance service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// GetCurrentBalance returns the quantity for a pair, zero when no row exists.
func (s *Service) GetCurrentBalance(ctx context.Context, resourceID, unitID id.ID) (types.Quantity, error) {
	qty, err := s.repo.GetQuantity(ctx, resourceID, unitID)
	if err != nil {
		return 0, fmt.Errorf("get balance for %s/%s: %w", resourceID, unitID, err)
	}
	return qty, nil
}

// HasSufficientBalance reports whether the current balance covers required.
// required is assumed positive.
func (s *Service) HasSufficientBalance(ctx context.Context, resourceID, unitID id.ID, required types.Quantity) (bool, error) {
	current, err := s.GetCurrentBalance(ctx, resourceID, unitID)
	if err != nil {
		return false, err
	}
	return current >= required, nil
}

// ValidateSufficiency checks that every line could be deducted right now.
// It does not mutate state; used as a pre-flight gate before signing a
// shipment and before deleting a receipt.
func (s *Service) ValidateSufficiency(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		current, err := s.GetCurrentBalance(ctx, line.ResourceID, line.UnitID)
		if err != nil {
			return err
		}
		if current < line.Quantity {
			return apperror.NewInsufficientBalance(
				line.ResourceID.String(),
				line.UnitID.String(),
				line.Quantity.String(),
				current.String(),
			)
		}
	}
	return nil
}

// List returns balance rows for reporting.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Balance, error) {
	return s.repo.List(ctx, filter)
}

// BulkUpdate is the single mutation primitive. All deductions are
// validated against current balances before any row is touched; on any
// failure the whole batch is rejected with per-item details and nothing
// is applied. The validate-then-apply sequence runs in one transaction.
//
// Known race: two concurrent calls touching the same pair can both pass
// validation against a stale read before either commits. The transaction
// boundary does not take row locks before reading (see DESIGN.md).
func (s *Service) BulkUpdate(ctx context.Context, deltas []Delta) error {
	if len(deltas) == 0 {
		return apperror.NewValidation("balance update requires at least one item")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var failures []map[string]any
		for _, d := range deltas {
			if !d.Quantity.IsNegative() {
				continue
			}
			required := d.Quantity.Neg()
			current, err := s.repo.GetQuantity(ctx, d.ResourceID, d.UnitID)
			if err != nil {
				return fmt.Errorf("get balance for %s/%s: %w", d.ResourceID, d.UnitID, err)
			}
			if current < required {
				failures = append(failures, map[string]any{
					"resource_id": d.ResourceID.String(),
					"unit_id":     d.UnitID.String(),
					"required":    required.String(),
					"available":   current.String(),
				})
			}
		}

		if len(failures) > 0 {
			return apperror.NewBusinessRule(
				apperror.CodeInsufficientBalance,
				"Insufficient balance",
			).WithDetail("items", failures)
		}

		for _, d := range deltas {
			if err := s.repo.ApplyDelta(ctx, d); err != nil {
				return fmt.Errorf("apply delta for %s/%s: %w", d.ResourceID, d.UnitID, err)
			}
		}
		return nil
	})

	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		logger.Error(ctx, "bulk balance update failed", "items", len(deltas), "error", err)
		return apperror.NewInternal(err)
	}

	return nil
}

// --- Document entry points ---
// Each derives a delta list from document lines and forwards to BulkUpdate.

// OnReceiptCreated adds every receipt line to balance.
func (s *Service) OnReceiptCreated(ctx context.Context, lines []Line) error {
	return s.BulkUpdate(ctx, linesToDeltas(lines, 1))
}

// OnReceiptDeleted reverses a receipt: every line is deducted.
func (s *Service) OnReceiptDeleted(ctx context.Context, lines []Line) error {
	return s.BulkUpdate(ctx, linesToDeltas(lines, -1))
}

// OnReceiptUpdated nets old against new line sets per pair and applies
// only pairs whose quantity actually changed. A no-op update (identical
// sums) touches nothing.
func (s *Service) OnReceiptUpdated(ctx context.Context, oldLines, newLines []Line) error {
	deltas := NetDeltas(oldLines, newLines)
	if len(deltas) == 0 {
		return nil
	}
	return s.BulkUpdate(ctx, deltas)
}

// OnShipmentSigned deducts every shipment line from balance.
func (s *Service) OnShipmentSigned(ctx context.Context, lines []Line) error {
	return s.BulkUpdate(ctx, linesToDeltas(lines, -1))
}

// OnShipmentRevoked adds every shipment line back, the exact reversal of
// the sign.
func (s *Service) OnShipmentRevoked(ctx context.Context, lines []Line) error {
	return s.BulkUpdate(ctx, linesToDeltas(lines, 1))
}

func linesToDeltas(lines []Line, sign int64) []Delta {
	deltas := make([]Delta, 0, len(lines))
	for _, line := range lines {
		deltas = append(deltas, Delta{
			ResourceID: line.ResourceID,
			UnitID:     line.UnitID,
			Quantity:   types.Quantity(sign) * line.Quantity,
		})
	}
	return deltas
}

// NetDeltas computes per-pair newSum − oldSum, dropping zero nets.
// Output order is deterministic (sorted by resource, then unit) so
// failure messages and tests are stable.
func NetDeltas(oldLines, newLines []Line) []Delta {
	net := make(map[pairKey]types.Quantity)
	for _, line := range oldLines {
		net[pairKey{line.ResourceID, line.UnitID}] -= line.Quantity
	}
	for _, line := range newLines {
		net[pairKey{line.ResourceID, line.UnitID}] += line.Quantity
	}

	deltas := make([]Delta, 0, len(net))
	for key, qty := range net {
		if qty.IsZero() {
			continue
		}
		deltas = append(deltas, Delta{
			ResourceID: key.resourceID,
			UnitID:     key.unitID,
			Quantity:   qty,
		})
	}

	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].ResourceID != deltas[j].ResourceID {
			return deltas[i].ResourceID.String() < deltas[j].ResourceID.String()
		}
		return deltas[i].UnitID.String() < deltas[j].UnitID.String()
	})

	return deltas
}
