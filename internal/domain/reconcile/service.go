// Package reconcile re-applies documents dated for a given calendar day
// through the balance engine, guarded by the execution ledger so every
// (worker, date) pair is processed at most once.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
	"github.com/Skalersaas/warehouse/internal/domain/documents/receipt"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
	"github.com/Skalersaas/warehouse/internal/domain/execution"
	"github.com/Skalersaas/warehouse/pkg/logger"
)

// WorkerName identifies the reconciliation worker in the execution ledger.
const WorkerName = "balance_reconciliation"

// ReceiptSource supplies the receipts of a day and lets the reconciler
// clear the pending-reconciliation flag after a successful re-apply.
type ReceiptSource interface {
	ListByDate(ctx context.Context, day time.Time) ([]*receipt.Receipt, error)
	SetBalancePending(ctx context.Context, docID id.ID, pending bool) error
}

// ShipmentSource supplies the signed shipments of a day.
type ShipmentSource interface {
	ListSignedByDate(ctx context.Context, day time.Time) ([]*shipment.Shipment, error)
}

// BalanceApplier is the slice of the balance engine the reconciler uses.
type BalanceApplier interface {
	OnReceiptCreated(ctx context.Context, lines []balance.Line) error
	OnShipmentSigned(ctx context.Context, lines []balance.Line) error
}

// Ledger is the execution ledger surface the reconciler needs.
type Ledger interface {
	TryStart(ctx context.Context, name string, date time.Time) (bool, error)
	Complete(ctx context.Context, name string, date time.Time, res execution.Result) error
	Reset(ctx context.Context, name string, date time.Time) error
}

// Service runs day-level balance reconciliation.
type Service struct {
	receipts  ReceiptSource
	shipments ShipmentSource
	balances  BalanceApplier
	ledger    Ledger
}

// NewService creates a reconciliation service.
func NewService(receipts ReceiptSource, shipments ShipmentSource, balances BalanceApplier, ledger Ledger) *Service {
	return &Service{
		receipts:  receipts,
		shipments: shipments,
		balances:  balances,
		ledger:    ledger,
	}
}

// RunForDate reconciles one calendar day end to end: claim the ledger
// slot, process the day's documents, record the outcome. When force is
// set the existing ledger record is removed first so the day reruns.
// A day already claimed by an earlier run is skipped without error.
func (s *Service) RunForDate(ctx context.Context, date time.Time, force bool) error {
	day := execution.Day(date)

	if force {
		if err := s.ledger.Reset(ctx, WorkerName, day); err != nil {
			return fmt.Errorf("force reset: %w", err)
		}
	}

	started, err := s.ledger.TryStart(ctx, WorkerName, day)
	if err != nil {
		return err
	}
	if !started {
		logger.Info(ctx, "reconciliation already done for date, skipping",
			"date", day.Format("2006-01-02"))
		return nil
	}

	res := s.ProcessDate(ctx, day)

	logger.Info(ctx, "reconciliation finished",
		"date", day.Format("2006-01-02"),
		"processed", res.DocumentsProcessed,
		"errors", res.ErrorsCount,
		"success", res.Success)

	return s.ledger.Complete(ctx, WorkerName, day, res)
}

// ProcessDate re-applies every receipt and every signed shipment dated
// on the given day. Processing is best effort per document: one
// document's failure is counted and its message kept, the rest of the
// batch continues.
func (s *Service) ProcessDate(ctx context.Context, day time.Time) execution.Result {
	var res execution.Result
	var failures []string

	receipts, err := s.receipts.ListByDate(ctx, day)
	if err != nil {
		logger.Error(ctx, "load receipts for reconciliation failed",
			"date", day.Format("2006-01-02"), "error", err)
		failures = append(failures, fmt.Sprintf("load receipts: %v", err))
	} else {
		for _, doc := range receipts {
			res.DocumentsProcessed++
			if err := s.applyReceipt(ctx, doc); err != nil {
				res.ErrorsCount++
				failures = append(failures, fmt.Sprintf("receipt %s: %v", doc.Number, err))
			}
		}
	}

	shipments, err := s.shipments.ListSignedByDate(ctx, day)
	if err != nil {
		logger.Error(ctx, "load shipments for reconciliation failed",
			"date", day.Format("2006-01-02"), "error", err)
		failures = append(failures, fmt.Sprintf("load shipments: %v", err))
	} else {
		for _, doc := range shipments {
			res.DocumentsProcessed++
			if err := s.balances.OnShipmentSigned(ctx, doc.BalanceLines()); err != nil {
				res.ErrorsCount++
				failures = append(failures, fmt.Sprintf("shipment %s: %v", doc.Number, err))
				logger.Warn(ctx, "shipment reconciliation failed",
					"number", doc.Number, "error", err)
			}
		}
	}

	res.Success = res.ErrorsCount == 0 && len(failures) == 0
	res.ErrorMessage = strings.Join(failures, "; ")
	return res
}

func (s *Service) applyReceipt(ctx context.Context, doc *receipt.Receipt) error {
	if err := s.balances.OnReceiptCreated(ctx, doc.BalanceLines()); err != nil {
		logger.Warn(ctx, "receipt reconciliation failed",
			"number", doc.Number, "error", err)
		return err
	}
	if doc.BalancePending {
		if err := s.receipts.SetBalancePending(ctx, doc.ID, false); err != nil {
			logger.Warn(ctx, "clearing balance pending flag failed",
				"number", doc.Number, "error", err)
		}
	}
	return nil
}
