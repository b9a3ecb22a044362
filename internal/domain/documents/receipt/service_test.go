package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
)

var (
	resA   = id.MustParse("018f0000-0000-7000-8000-00000000000a")
	unitKg = id.MustParse("018f0000-0000-7000-8000-000000000001")
)

type pair struct {
	resourceID id.ID
	unitID     id.ID
}

// balanceRepo keeps balances in a map; failApply makes every write fail.
type balanceRepo struct {
	balances  map[pair]types.Quantity
	failApply error
}

func newBalanceRepo() *balanceRepo {
	return &balanceRepo{balances: make(map[pair]types.Quantity)}
}

func (m *balanceRepo) GetQuantity(ctx context.Context, resourceID, unitID id.ID) (types.Quantity, error) {
	return m.balances[pair{resourceID, unitID}], nil
}

func (m *balanceRepo) ApplyDelta(ctx context.Context, delta balance.Delta) error {
	if m.failApply != nil {
		return m.failApply
	}
	m.balances[pair{delta.ResourceID, delta.UnitID}] += delta.Quantity
	return nil
}

func (m *balanceRepo) List(ctx context.Context, filter balance.ListFilter) ([]balance.Balance, error) {
	return nil, nil
}

// docRepo is an in-memory receipt.Repository.
type docRepo struct {
	docs    map[id.ID]*Receipt
	lines   map[id.ID][]ReceiptLine
	pending map[id.ID]bool
}

func newDocRepo() *docRepo {
	return &docRepo{
		docs:    make(map[id.ID]*Receipt),
		lines:   make(map[id.ID][]ReceiptLine),
		pending: make(map[id.ID]bool),
	}
}

func (m *docRepo) Create(ctx context.Context, doc *Receipt) error {
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *docRepo) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
	doc, ok := m.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("receipt", docID)
	}
	cp := *doc
	return &cp, nil
}

func (m *docRepo) GetByNumber(ctx context.Context, number string) (*Receipt, error) {
	for _, doc := range m.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("receipt", number)
}

func (m *docRepo) Update(ctx context.Context, doc *Receipt) error {
	if _, ok := m.docs[doc.ID]; !ok {
		return apperror.NewNotFound("receipt", doc.ID)
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *docRepo) Delete(ctx context.Context, docID id.ID) error {
	if _, ok := m.docs[docID]; !ok {
		return apperror.NewNotFound("receipt", docID)
	}
	delete(m.docs, docID)
	delete(m.lines, docID)
	return nil
}

func (m *docRepo) GetLines(ctx context.Context, docID id.ID) ([]ReceiptLine, error) {
	return m.lines[docID], nil
}

func (m *docRepo) SaveLines(ctx context.Context, docID id.ID, lines []ReceiptLine) error {
	m.lines[docID] = append([]ReceiptLine(nil), lines...)
	return nil
}

func (m *docRepo) SetBalancePending(ctx context.Context, docID id.ID, pending bool) error {
	if _, ok := m.docs[docID]; !ok {
		return apperror.NewNotFound("receipt", docID)
	}
	m.pending[docID] = pending
	return nil
}

func (m *docRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error) {
	return domain.ListResult[*Receipt]{}, nil
}

func (m *docRepo) ListByDate(ctx context.Context, day time.Time) ([]*Receipt, error) {
	return nil, nil
}

// allActive accepts every catalog reference.
type allActive struct{}

func (allActive) IsActive(ctx context.Context, _ id.ID) (bool, error) { return true, nil }

// staticChecker answers every lookup with a fixed result.
type staticChecker struct {
	active bool
	err    error
}

func (c staticChecker) IsActive(ctx context.Context, _ id.ID) (bool, error) {
	return c.active, c.err
}

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *docRepo, *balanceRepo) {
	repo := newDocRepo()
	bals := newBalanceRepo()
	balances := balance.NewService(bals, passTxManager{})
	svc := NewService(repo, balances, allActive{}, allActive{}, nil, passTxManager{})
	return svc, repo, bals
}

func newTestReceipt(number string, qty string) *Receipt {
	doc := NewReceipt()
	doc.Number = number
	doc.SupplierName = "Acme Supply"
	doc.AddLine(resA, unitKg, types.MustQuantity(qty))
	return doc
}

func TestCreate_AppliesLinesToBalance(t *testing.T) {
	svc, repo, bals := newTestService()
	ctx := context.Background()

	doc := newTestReceipt("RCP-000001", "50")
	require.NoError(t, svc.Create(ctx, doc))

	assert.False(t, doc.BalancePending)
	assert.Equal(t, types.MustQuantity("50"), bals.balances[pair{resA, unitKg}])
	assert.Len(t, repo.lines[doc.ID], 1)
}

func TestCreate_RejectsEmptyLines(t *testing.T) {
	svc, _, _ := newTestService()

	doc := NewReceipt()
	doc.Number = "RCP-000001"

	err := svc.Create(context.Background(), doc)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_RejectsDuplicateNumber(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, newTestReceipt("RCP-000001", "10")))

	err := svc.Create(ctx, newTestReceipt("RCP-000001", "20"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreate_RejectsArchivedResource(t *testing.T) {
	repo := newDocRepo()
	bals := newBalanceRepo()
	balances := balance.NewService(bals, passTxManager{})
	svc := NewService(repo, balances, staticChecker{active: false}, allActive{}, nil, passTxManager{})

	err := svc.Create(context.Background(), newTestReceipt("RCP-000001", "50"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.docs)
	assert.Empty(t, bals.balances)
}

func TestCreate_RejectsArchivedUnit(t *testing.T) {
	repo := newDocRepo()
	bals := newBalanceRepo()
	balances := balance.NewService(bals, passTxManager{})
	svc := NewService(repo, balances, allActive{}, staticChecker{active: false}, nil, passTxManager{})

	err := svc.Create(context.Background(), newTestReceipt("RCP-000001", "50"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.docs)
	assert.Empty(t, bals.balances)
}

func TestCreate_CheckerFailurePropagates(t *testing.T) {
	repo := newDocRepo()
	bals := newBalanceRepo()
	balances := balance.NewService(bals, passTxManager{})
	lookupErr := errors.New("catalog lookup failed")
	svc := NewService(repo, balances, staticChecker{err: lookupErr}, allActive{}, nil, passTxManager{})

	err := svc.Create(context.Background(), newTestReceipt("RCP-000001", "50"))
	require.ErrorIs(t, err, lookupErr)
	assert.Empty(t, repo.docs)
	assert.Empty(t, bals.balances)
}

func TestCreate_BalanceFailureFlagsPending(t *testing.T) {
	svc, repo, bals := newTestService()
	ctx := context.Background()
	bals.failApply = errors.New("connection refused")

	doc := newTestReceipt("RCP-000001", "50")

	// Persisting succeeded, so the caller gets no error. The document is
	// flagged for the reconciliation worker instead.
	require.NoError(t, svc.Create(ctx, doc))

	assert.True(t, doc.BalancePending)
	assert.True(t, repo.pending[doc.ID])
	_, exists := repo.docs[doc.ID]
	assert.True(t, exists)
}

func TestUpdate_AppliesNetDelta(t *testing.T) {
	svc, _, bals := newTestService()
	ctx := context.Background()

	doc := newTestReceipt("RCP-000001", "50")
	require.NoError(t, svc.Create(ctx, doc))

	doc.Lines = doc.Lines[:0]
	doc.AddLine(resA, unitKg, types.MustQuantity("30"))
	require.NoError(t, svc.Update(ctx, doc))

	assert.Equal(t, types.MustQuantity("30"), bals.balances[pair{resA, unitKg}])
}

func TestUpdate_RejectedWhenNetDeductionExceedsBalance(t *testing.T) {
	svc, repo, bals := newTestService()
	ctx := context.Background()

	doc := newTestReceipt("RCP-000001", "50")
	require.NoError(t, svc.Create(ctx, doc))

	// Another document already consumed most of the stock.
	bals.balances[pair{resA, unitKg}] = types.MustQuantity("10")

	doc.Lines = doc.Lines[:0]
	doc.AddLine(resA, unitKg, types.MustQuantity("30"))

	err := svc.Update(ctx, doc)
	assert.True(t, apperror.IsInsufficientBalance(err))
	assert.Equal(t, types.MustQuantity("10"), bals.balances[pair{resA, unitKg}])
	assert.Len(t, repo.lines[doc.ID], 1)
}

func TestDelete_ReversesBalance(t *testing.T) {
	svc, repo, bals := newTestService()
	ctx := context.Background()

	doc := newTestReceipt("RCP-000001", "50")
	require.NoError(t, svc.Create(ctx, doc))

	require.NoError(t, svc.Delete(ctx, doc.ID))
	assert.True(t, bals.balances[pair{resA, unitKg}].IsZero())
	assert.Empty(t, repo.docs)

	// Already gone.
	err := svc.Delete(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_RejectedWhenStockConsumed(t *testing.T) {
	svc, repo, bals := newTestService()
	ctx := context.Background()

	doc := newTestReceipt("RCP-000001", "50")
	require.NoError(t, svc.Create(ctx, doc))

	// A shipment took 30 of the 50; reversing the receipt would go negative.
	bals.balances[pair{resA, unitKg}] = types.MustQuantity("20")

	err := svc.Delete(ctx, doc.ID)
	assert.True(t, apperror.IsInsufficientBalance(err))
	_, exists := repo.docs[doc.ID]
	assert.True(t, exists)
	assert.Equal(t, types.MustQuantity("20"), bals.balances[pair{resA, unitKg}])
}
