package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
	"github.com/Skalersaas/warehouse/internal/domain/documents/receipt"
	"github.com/Skalersaas/warehouse/internal/domain/documents/shipment"
	"github.com/Skalersaas/warehouse/internal/domain/execution"
)

var (
	resourceA = id.MustParse("018f0000-0000-7000-8000-00000000000a")
	unitPcs   = id.MustParse("018f0000-0000-7000-8000-00000000000b")
	clientX   = id.MustParse("018f0000-0000-7000-8000-00000000000c")
)

type mockReceipts struct {
	docs        []*receipt.Receipt
	listErr     error
	clearedFlag []id.ID
}

func (m *mockReceipts) ListByDate(_ context.Context, _ time.Time) ([]*receipt.Receipt, error) {
	return m.docs, m.listErr
}

func (m *mockReceipts) SetBalancePending(_ context.Context, docID id.ID, pending bool) error {
	if !pending {
		m.clearedFlag = append(m.clearedFlag, docID)
	}
	return nil
}

type mockShipments struct {
	docs    []*shipment.Shipment
	listErr error
}

func (m *mockShipments) ListSignedByDate(_ context.Context, _ time.Time) ([]*shipment.Shipment, error) {
	return m.docs, m.listErr
}

type mockBalances struct {
	receiptCalls  int
	shipmentCalls int
	failNumbers   map[int]error // call ordinal (1-based, per kind) -> error
}

func (m *mockBalances) OnReceiptCreated(_ context.Context, _ []balance.Line) error {
	m.receiptCalls++
	if err, ok := m.failNumbers[m.receiptCalls]; ok {
		return err
	}
	return nil
}

func (m *mockBalances) OnShipmentSigned(_ context.Context, _ []balance.Line) error {
	m.shipmentCalls++
	return nil
}

type mockLedger struct {
	started   map[string]bool
	completed []execution.Result
	resets    int
}

func newMockLedger() *mockLedger {
	return &mockLedger{started: make(map[string]bool)}
}

func ledgerKey(name string, date time.Time) string {
	return name + "|" + date.Format("2006-01-02")
}

func (m *mockLedger) TryStart(_ context.Context, name string, date time.Time) (bool, error) {
	k := ledgerKey(name, date)
	if m.started[k] {
		return false, nil
	}
	m.started[k] = true
	return true, nil
}

func (m *mockLedger) Complete(_ context.Context, _ string, _ time.Time, res execution.Result) error {
	m.completed = append(m.completed, res)
	return nil
}

func (m *mockLedger) Reset(_ context.Context, name string, date time.Time) error {
	delete(m.started, ledgerKey(name, date))
	m.resets++
	return nil
}

func newReceipt(number string, pending bool) *receipt.Receipt {
	doc := receipt.NewReceipt()
	doc.Number = number
	doc.BalancePending = pending
	doc.AddLine(resourceA, unitPcs, types.MustQuantity("10"))
	return doc
}

func newSignedShipment(number string) *shipment.Shipment {
	doc := shipment.NewShipment(clientX)
	doc.Number = number
	doc.AddLine(resourceA, unitPcs, types.MustQuantity("5"))
	doc.MarkSigned()
	return doc
}

func TestProcessDateCountsAllDocuments(t *testing.T) {
	receipts := &mockReceipts{docs: []*receipt.Receipt{
		newReceipt("RCP-000001", false),
		newReceipt("RCP-000002", false),
	}}
	shipments := &mockShipments{docs: []*shipment.Shipment{
		newSignedShipment("SHP-000001"),
	}}
	balances := &mockBalances{}
	svc := NewService(receipts, shipments, balances, newMockLedger())

	res := svc.ProcessDate(context.Background(), execution.Day(time.Now()))

	assert.Equal(t, 3, res.DocumentsProcessed)
	assert.Equal(t, 0, res.ErrorsCount)
	assert.True(t, res.Success)
	assert.Empty(t, res.ErrorMessage)
	assert.Equal(t, 2, balances.receiptCalls)
	assert.Equal(t, 1, balances.shipmentCalls)
}

func TestProcessDateAccumulatesPerDocumentErrors(t *testing.T) {
	receipts := &mockReceipts{docs: []*receipt.Receipt{
		newReceipt("RCP-000001", false),
		newReceipt("RCP-000002", false),
		newReceipt("RCP-000003", false),
	}}
	balances := &mockBalances{failNumbers: map[int]error{
		2: errors.New("storage unavailable"),
	}}
	svc := NewService(receipts, &mockShipments{}, balances, newMockLedger())

	res := svc.ProcessDate(context.Background(), execution.Day(time.Now()))

	// One failure does not block the remaining documents.
	assert.Equal(t, 3, res.DocumentsProcessed)
	assert.Equal(t, 1, res.ErrorsCount)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "RCP-000002")
	assert.Equal(t, 3, balances.receiptCalls)
}

func TestProcessDateClearsPendingFlag(t *testing.T) {
	pending := newReceipt("RCP-000009", true)
	applied := newReceipt("RCP-000010", false)
	receipts := &mockReceipts{docs: []*receipt.Receipt{pending, applied}}
	svc := NewService(receipts, &mockShipments{}, &mockBalances{}, newMockLedger())

	res := svc.ProcessDate(context.Background(), execution.Day(time.Now()))

	require.True(t, res.Success)
	require.Len(t, receipts.clearedFlag, 1)
	assert.Equal(t, pending.ID, receipts.clearedFlag[0])
}

func TestRunForDateSkipsClaimedDay(t *testing.T) {
	ledger := newMockLedger()
	balances := &mockBalances{}
	svc := NewService(&mockReceipts{docs: []*receipt.Receipt{newReceipt("RCP-000001", false)}},
		&mockShipments{}, balances, ledger)
	date := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RunForDate(context.Background(), date, false))
	require.NoError(t, svc.RunForDate(context.Background(), date, false))

	// Second run skipped: documents applied once, one completion recorded.
	assert.Equal(t, 1, balances.receiptCalls)
	assert.Len(t, ledger.completed, 1)
}

func TestRunForDateForceResetsAndReruns(t *testing.T) {
	ledger := newMockLedger()
	balances := &mockBalances{}
	svc := NewService(&mockReceipts{}, &mockShipments{}, balances, ledger)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RunForDate(context.Background(), date, false))
	require.NoError(t, svc.RunForDate(context.Background(), date, true))

	assert.Equal(t, 1, ledger.resets)
	assert.Len(t, ledger.completed, 2)
}

func TestRunForDateRecordsOutcomeDespiteErrors(t *testing.T) {
	ledger := newMockLedger()
	receipts := &mockReceipts{listErr: errors.New("connection refused")}
	svc := NewService(receipts, &mockShipments{}, &mockBalances{}, ledger)

	require.NoError(t, svc.RunForDate(context.Background(), time.Now(), false))

	require.Len(t, ledger.completed, 1)
	assert.False(t, ledger.completed[0].Success)
	assert.Contains(t, ledger.completed[0].ErrorMessage, "load receipts")
}
