package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skalersaas/warehouse/internal/domain/execution"
)

func TestUntilNextMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	w := &Worker{now: func() time.Time {
		return time.Date(2024, 6, 15, 23, 30, 0, 0, loc)
	}}
	assert.Equal(t, 30*time.Minute, w.untilNextMidnight())

	w.now = func() time.Time {
		return time.Date(2024, 6, 15, 0, 0, 0, 0, loc)
	}
	assert.Equal(t, 24*time.Hour, w.untilNextMidnight())
}

func TestSleepInterruptedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, time.Hour))
}

func TestSleepCompletes(t *testing.T) {
	assert.True(t, sleep(context.Background(), time.Millisecond))
}

// flakyLedger fails TryStart a fixed number of times before behaving
// like the plain mock.
type flakyLedger struct {
	*mockLedger
	failures int
	attempts []time.Time
}

func (f *flakyLedger) TryStart(ctx context.Context, name string, date time.Time) (bool, error) {
	f.attempts = append(f.attempts, date)
	if f.failures > 0 {
		f.failures--
		return false, errors.New("ledger unavailable")
	}
	return f.mockLedger.TryStart(ctx, name, date)
}

func TestRunWithRetryKeepsSameDateAcrossFailures(t *testing.T) {
	ledger := &flakyLedger{mockLedger: newMockLedger(), failures: 2}
	svc := NewService(&mockReceipts{}, &mockShipments{}, &mockBalances{}, ledger)
	w := NewWorker(svc)
	w.backoff = time.Millisecond

	date := time.Date(2024, 6, 15, 0, 0, 30, 0, time.UTC)
	require.True(t, w.runWithRetry(context.Background(), date))

	require.Len(t, ledger.attempts, 3)
	for _, got := range ledger.attempts {
		assert.Equal(t, execution.Day(date), got)
	}
	assert.Len(t, ledger.completed, 1)
}

func TestRunWithRetryStopsOnCancel(t *testing.T) {
	ledger := &flakyLedger{mockLedger: newMockLedger(), failures: 100}
	svc := NewService(&mockReceipts{}, &mockShipments{}, &mockBalances{}, ledger)
	w := NewWorker(svc)
	w.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, w.runWithRetry(ctx, time.Now()))
	assert.Empty(t, ledger.completed)
}

func TestRunExitsCleanlyOnCancel(t *testing.T) {
	svc := NewService(&mockReceipts{}, &mockShipments{}, &mockBalances{}, newMockLedger())
	w := NewWorker(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
