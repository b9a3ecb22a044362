package execution

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	records map[string]*Execution
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[string]*Execution)}
}

func key(name string, date time.Time) string {
	return name + "|" + Day(date).Format("2006-01-02")
}

func (m *mockRepo) TryInsertRunning(_ context.Context, name string, date time.Time) (bool, error) {
	k := key(name, date)
	if _, ok := m.records[k]; ok {
		return false, nil
	}
	m.records[k] = &Execution{
		WorkerName:     name,
		ExecutionDate:  Day(date),
		LastExecutedAt: time.Now().UTC(),
	}
	return true, nil
}

func (m *mockRepo) Complete(_ context.Context, exec *Execution) error {
	m.records[key(exec.WorkerName, exec.ExecutionDate)] = exec
	return nil
}

func (m *mockRepo) Delete(_ context.Context, name string, date time.Time) error {
	delete(m.records, key(name, date))
	return nil
}

func (m *mockRepo) Get(_ context.Context, name string, date time.Time) (*Execution, error) {
	return m.records[key(name, date)], nil
}

func (m *mockRepo) ListRecent(_ context.Context, name string, limit int) ([]*Execution, error) {
	var out []*Execution
	for _, e := range m.records {
		if e.WorkerName == name {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestTryStartClaimsDayOnce(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	date := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	started, err := svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)
	assert.True(t, started)

	// Same calendar day, different clock time.
	again, err := svc.TryStart(ctx, "reconciliation", date.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, again)
	assert.Len(t, repo.records, 1)
}

func TestTryStartDifferentWorkersIndependent(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)
	b, err := svc.TryStart(ctx, "cleanup", date)
	require.NoError(t, err)
	assert.True(t, a)
	assert.True(t, b)
}

func TestResetAllowsReprocessing(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	started, err := svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)
	require.True(t, started)

	require.NoError(t, svc.Reset(ctx, "reconciliation", date))

	started, err = svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)
	assert.True(t, started)
}

func TestCompleteTruncatesErrorMessage(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)

	long := strings.Repeat("x", MaxErrorMessageLen+500)
	err = svc.Complete(ctx, "reconciliation", date, Result{
		DocumentsProcessed: 7,
		ErrorsCount:        2,
		Success:            false,
		ErrorMessage:       long,
	})
	require.NoError(t, err)

	rec, err := svc.Get(ctx, "reconciliation", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Completed)
	assert.False(t, rec.Success)
	assert.Equal(t, 7, rec.DocumentsProcessed)
	assert.Equal(t, 2, rec.ErrorsCount)
	assert.Len(t, rec.ErrorMessage, MaxErrorMessageLen)
}

func TestCompleteTruncatesOnRuneBoundary(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.TryStart(ctx, "reconciliation", date)
	require.NoError(t, err)

	// Place a two-byte rune straddling the byte limit.
	long := strings.Repeat("x", MaxErrorMessageLen-1) + "фффф"
	require.Greater(t, len(long), MaxErrorMessageLen)

	err = svc.Complete(ctx, "reconciliation", date, Result{
		ErrorsCount:  1,
		ErrorMessage: long,
	})
	require.NoError(t, err)

	rec, err := svc.Get(ctx, "reconciliation", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, utf8.ValidString(rec.ErrorMessage))
	assert.LessOrEqual(t, len(rec.ErrorMessage), MaxErrorMessageLen)
	assert.True(t, strings.HasPrefix(long, rec.ErrorMessage))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "abc", truncateMessage("abc", 5))
	assert.Equal(t, "ab", truncateMessage("abcd", 2))
	// "é" is two bytes; a limit landing mid-rune backs up to the boundary.
	assert.Equal(t, "aé", truncateMessage("aéé", 4))
	assert.Equal(t, "a", truncateMessage("aéé", 2))
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 3, 15, 2, 30, 0, 0, loc) // 2024-03-14 21:30 UTC
	day := Day(ts)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), day)
}
