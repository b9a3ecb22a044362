package shipment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skalersaas/warehouse/internal/core/types"
)

func TestStateMachine_Draft(t *testing.T) {
	doc := NewShipment(clientA)

	assert.False(t, doc.IsSigned())
	assert.NoError(t, doc.CanModify())
	assert.NoError(t, doc.CanDelete())
	assert.NoError(t, doc.CanSign())
	assert.Error(t, doc.CanRevoke())
}

func TestStateMachine_Signed(t *testing.T) {
	doc := NewShipment(clientA)
	doc.MarkSigned()

	assert.True(t, doc.IsSigned())
	assert.Error(t, doc.CanModify())
	assert.Error(t, doc.CanDelete())
	assert.Error(t, doc.CanSign())
	assert.NoError(t, doc.CanRevoke())
}

func TestStateMachine_SignRevokeRoundTrip(t *testing.T) {
	doc := NewShipment(clientA)

	doc.MarkSigned()
	assert.Equal(t, StatusSigned, doc.Status)

	doc.MarkDraft()
	assert.Equal(t, StatusDraft, doc.Status)
	assert.NoError(t, doc.CanSign())
}

func TestValidate_LineRules(t *testing.T) {
	doc := NewShipment(clientA)
	assert.Error(t, doc.Validate(context.Background()), "no lines")

	doc.AddLine(resA, unitKg, types.MustQuantity("0"))
	assert.Error(t, doc.Validate(context.Background()), "zero quantity")

	doc.Lines = doc.Lines[:0]
	doc.AddLine(resA, unitKg, types.MustQuantity("1.5"))
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestBalanceLines_MirrorsTablePart(t *testing.T) {
	doc := NewShipment(clientA)
	doc.AddLine(resA, unitKg, types.MustQuantity("2"))
	doc.AddLine(resA, unitKg, types.MustQuantity("3"))

	lines := doc.BalanceLines()
	assert.Len(t, lines, 2)
	assert.Equal(t, types.MustQuantity("2"), lines[0].Quantity)
	assert.Equal(t, types.MustQuantity("3"), lines[1].Quantity)
}
