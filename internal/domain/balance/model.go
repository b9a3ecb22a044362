// Package balance provides the inventory balance engine.
//
// One mutable row is kept per (resource, unit) pair. The row is a running
// total mutated in place, never recomputed from history. All mutations go
// through BulkUpdate, which validates every deduction before touching any
// row and applies the whole batch in one transaction.
package balance

import (
	"time"

	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
)

// Balance is the materialized stock quantity for a (resource, unit) pair.
// Created lazily on first movement; absence means zero stock.
type Balance struct {
	ResourceID id.ID          `db:"resource_id" json:"resourceId"`
	UnitID     id.ID          `db:"unit_id" json:"unitId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// Line names a (resource, unit, quantity) triple coming off a document
// item. Quantity is unsigned here; direction is decided by the engine
// operation (receipt lines add, shipment lines subtract).
type Line struct {
	ResourceID id.ID
	UnitID     id.ID
	Quantity   types.Quantity
}

// Delta is one signed mutation within a bulk update.
type Delta struct {
	ResourceID id.ID
	UnitID     id.ID
	Quantity   types.Quantity // signed: positive adds, negative deducts
}

// pairKey identifies a balance row inside netting maps.
type pairKey struct {
	resourceID id.ID
	unitID     id.ID
}
