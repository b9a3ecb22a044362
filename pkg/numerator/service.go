// Package numerator provides document auto-numbering.
//
// Numbers are allocated from a sys_sequences table with one UPDATE …
// RETURNING round-trip per number. This guarantees sequential numbers
// without gaps, which is what accounting documents need; a cached range
// strategy was deliberately not carried over.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service provides document numbering.
type Service struct {
	querier Querier
}

// New creates a numerator service over the given querier.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// NextNumber allocates the next number for a prefix. Sequences are
// scoped per calendar year so numbering restarts every January.
// The returned form is "<prefix>-<seq>", e.g. "RCP-000042".
func (s *Service) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	key := fmt.Sprintf("%s_%d", prefix, at.Year())

	var val int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&val)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return fmt.Sprintf("%s-%06d", prefix, val), nil
}
