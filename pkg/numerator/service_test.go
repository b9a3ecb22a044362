package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: every call bumps the
// counter for the given key.
type mockQuerier struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	key, _ := args[0].(string)
	m.seqs[key]++
	return &mockRow{val: m.seqs[key]}
}

func TestNextNumberSequence(t *testing.T) {
	svc := New(&mockQuerier{})
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.NextNumber(context.Background(), "RCP", at)
	if err != nil {
		t.Fatalf("NextNumber failed: %v", err)
	}
	if first != "RCP-000001" {
		t.Errorf("want RCP-000001, got %s", first)
	}

	second, err := svc.NextNumber(context.Background(), "RCP", at)
	if err != nil {
		t.Fatalf("NextNumber failed: %v", err)
	}
	if second != "RCP-000002" {
		t.Errorf("want RCP-000002, got %s", second)
	}
}

func TestNextNumberYearScoped(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)

	y2024 := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	y2025 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.NextNumber(context.Background(), "SHP", y2024); err != nil {
		t.Fatalf("NextNumber failed: %v", err)
	}
	got, err := svc.NextNumber(context.Background(), "SHP", y2025)
	if err != nil {
		t.Fatalf("NextNumber failed: %v", err)
	}
	// New year starts a fresh sequence.
	if got != "SHP-000001" {
		t.Errorf("want SHP-000001, got %s", got)
	}
}
