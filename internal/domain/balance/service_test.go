package balance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
)

// mockRepo keeps balances in a map and counts writes.
type mockRepo struct {
	balances map[pairKey]types.Quantity
	applied  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{balances: make(map[pairKey]types.Quantity)}
}

func (m *mockRepo) GetQuantity(ctx context.Context, resourceID, unitID id.ID) (types.Quantity, error) {
	return m.balances[pairKey{resourceID, unitID}], nil
}

func (m *mockRepo) ApplyDelta(ctx context.Context, delta Delta) error {
	m.balances[pairKey{delta.ResourceID, delta.UnitID}] += delta.Quantity
	m.applied++
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]Balance, error) {
	var out []Balance
	for key, qty := range m.balances {
		out = append(out, Balance{ResourceID: key.resourceID, UnitID: key.unitID, Quantity: qty})
	}
	return out, nil
}

// passTxManager runs fn directly; the mock repo has no real transactions.
type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, passTxManager{}), repo
}

var (
	resA = id.MustParse("018f0000-0000-7000-8000-00000000000a")
	resB = id.MustParse("018f0000-0000-7000-8000-00000000000b")
	unit = id.MustParse("018f0000-0000-7000-8000-000000000001")
)

func TestGetCurrentBalance_MissingRowIsZero(t *testing.T) {
	svc, _ := newTestService()

	qty, err := svc.GetCurrentBalance(context.Background(), resA, unit)
	assert.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestHasSufficientBalance(t *testing.T) {
	svc, repo := newTestService()
	repo.balances[pairKey{resA, unit}] = types.MustQuantity("10")

	ok, err := svc.HasSufficientBalance(context.Background(), resA, unit, types.MustQuantity("10"))
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasSufficientBalance(context.Background(), resA, unit, types.MustQuantity("10.0001"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBulkUpdate_EmptyRejected(t *testing.T) {
	svc, _ := newTestService()

	err := svc.BulkUpdate(context.Background(), nil)
	assert.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestBulkUpdate_AllOrNothing(t *testing.T) {
	svc, repo := newTestService()
	repo.balances[pairKey{resA, unit}] = types.MustQuantity("100")
	// resB has no stock, so its deduction must fail the whole batch.

	err := svc.BulkUpdate(context.Background(), []Delta{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("50").Neg()},
		{ResourceID: resB, UnitID: unit, Quantity: types.MustQuantity("1").Neg()},
	})

	assert.True(t, apperror.IsInsufficientBalance(err))
	assert.Equal(t, 0, repo.applied)
	assert.Equal(t, types.MustQuantity("100"), repo.balances[pairKey{resA, unit}])
}

func TestBulkUpdate_ReportsEveryFailure(t *testing.T) {
	svc, _ := newTestService()

	err := svc.BulkUpdate(context.Background(), []Delta{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("5").Neg()},
		{ResourceID: resB, UnitID: unit, Quantity: types.MustQuantity("3").Neg()},
	})

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	items, ok := appErr.Details["items"].([]map[string]any)
	assert.True(t, ok)
	assert.Len(t, items, 2)
}

func TestBulkUpdate_CreatesRowOnFirstMovement(t *testing.T) {
	svc, repo := newTestService()

	err := svc.BulkUpdate(context.Background(), []Delta{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("7.5")},
	})

	assert.NoError(t, err)
	assert.Equal(t, types.MustQuantity("7.5"), repo.balances[pairKey{resA, unit}])
}

func TestReceiptCreateThenDeleteIsIdentity(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	lines := []Line{{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("50")}}

	assert.NoError(t, svc.OnReceiptCreated(ctx, lines))
	assert.Equal(t, types.MustQuantity("50"), repo.balances[pairKey{resA, unit}])

	assert.NoError(t, svc.OnReceiptDeleted(ctx, lines))
	assert.True(t, repo.balances[pairKey{resA, unit}].IsZero())
}

func TestSignThenRevokeIsIdentity(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	repo.balances[pairKey{resA, unit}] = types.MustQuantity("100")

	lines := []Line{{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("50")}}

	assert.NoError(t, svc.OnShipmentSigned(ctx, lines))
	assert.Equal(t, types.MustQuantity("50"), repo.balances[pairKey{resA, unit}])

	assert.NoError(t, svc.OnShipmentRevoked(ctx, lines))
	assert.Equal(t, types.MustQuantity("100"), repo.balances[pairKey{resA, unit}])
}

func TestOnReceiptUpdated_NetsPerPair(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	repo.balances[pairKey{resA, unit}] = types.MustQuantity("10")
	repo.balances[pairKey{resB, unit}] = types.MustQuantity("5")

	oldLines := []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("10")},
		{ResourceID: resB, UnitID: unit, Quantity: types.MustQuantity("5")},
	}
	newLines := []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("4")},
		{ResourceID: resB, UnitID: unit, Quantity: types.MustQuantity("5")},
	}

	assert.NoError(t, svc.OnReceiptUpdated(ctx, oldLines, newLines))
	assert.Equal(t, types.MustQuantity("4"), repo.balances[pairKey{resA, unit}])
	// Unchanged pair is skipped entirely.
	assert.Equal(t, types.MustQuantity("5"), repo.balances[pairKey{resB, unit}])
	assert.Equal(t, 1, repo.applied)
}

func TestOnReceiptUpdated_NoNetChangeIsNoop(t *testing.T) {
	svc, repo := newTestService()

	lines := []Line{{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("3")}}
	assert.NoError(t, svc.OnReceiptUpdated(context.Background(), lines, lines))
	assert.Equal(t, 0, repo.applied)
}

func TestValidateSufficiency(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	repo.balances[pairKey{resA, unit}] = types.MustQuantity("2")

	err := svc.ValidateSufficiency(ctx, []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("2")},
	})
	assert.NoError(t, err)

	err = svc.ValidateSufficiency(ctx, []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("2.0001")},
	})
	assert.True(t, apperror.IsInsufficientBalance(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, resA.String(), appErr.Details["resource_id"])
}

func TestNetDeltas_MergesDuplicateLines(t *testing.T) {
	oldLines := []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("1")},
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("2")},
	}
	newLines := []Line{
		{ResourceID: resA, UnitID: unit, Quantity: types.MustQuantity("5")},
	}

	deltas := NetDeltas(oldLines, newLines)
	assert.Len(t, deltas, 1)
	assert.Equal(t, types.MustQuantity("2"), deltas[0].Quantity)
}
