// Package tx provides transaction management abstractions.
// Domain services depend on the Manager interface only; the concrete
// implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
//
// RunInTransaction executes fn within a database transaction. If fn
// returns an error, the transaction is rolled back; otherwise it is
// committed. Nested calls reuse the transaction already stored in ctx,
// which is what lets a document service wrap a repository write and a
// balance update into one atomic unit.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
