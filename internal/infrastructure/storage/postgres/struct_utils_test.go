package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skalersaas/warehouse/internal/core/entity"
	"github.com/Skalersaas/warehouse/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Symbol string `db:"symbol" json:"symbol"`
	Skip   string `db:"-" json:"skip"`
}

func TestExtractDBColumnsIncludesEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	for _, expected := range []string{"id", "version", "code", "name", "archived", "symbol"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMapFlattensEmbedded(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{ID: id.New(), Version: 5},
			Code:       "UN-000001",
			Name:       "Kilogram",
			Archived:   true,
		},
		Symbol: "kg",
		Skip:   "ignored",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "UN-000001", m["code"])
	assert.Equal(t, "Kilogram", m["name"])
	assert.Equal(t, true, m["archived"])
	assert.Equal(t, "kg", m["symbol"])
	_, ok := m["-"]
	assert.False(t, ok)
	assert.NotContains(t, m, "skip")
}

func TestStructToMapPointerInput(t *testing.T) {
	cat := &mockCatalog{Symbol: "pcs"}
	m := StructToMap(cat)
	assert.Equal(t, "pcs", m["symbol"])
}
