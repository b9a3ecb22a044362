package unit

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUnitValidate(t *testing.T) {
	u := NewUnit("UN-001", "Kilogram", "kg", TypeWeight)
	assert.NoError(t, u.Validate(context.Background()))

	u.Symbol = ""
	assert.Error(t, u.Validate(context.Background()))

	u = NewUnit("UN-002", "Box", "box", "crate")
	assert.Error(t, u.Validate(context.Background()))

	u = NewUnit("UN-003", "Gram", "g", TypeWeight)
	u.ConversionFactor = decimal.Zero
	assert.Error(t, u.Validate(context.Background()))
}

func TestUnitConvertTo(t *testing.T) {
	kg := NewUnit("UN-001", "Kilogram", "kg", TypeWeight)
	g := NewUnit("UN-002", "Gram", "g", TypeWeight)
	g.ConversionFactor = decimal.RequireFromString("0.001")
	g.IsBase = false

	got, err := g.ConvertTo(decimal.NewFromInt(2500), kg)
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")), got.String())

	pcs := NewUnit("UN-003", "Piece", "pcs", TypePiece)
	_, err = g.ConvertTo(decimal.NewFromInt(1), pcs)
	assert.Error(t, err)
}
