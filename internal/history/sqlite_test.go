package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixphool/healthtwin/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(sessionID string, week, score int) *domain.ScoreRecord {
	return &domain.ScoreRecord{
		SessionID:    sessionID,
		Week:         week,
		OverallScore: score,
		Category:     domain.CategoryForScore(score),
		Result: &domain.HealthScoreResult{
			OverallScore:  score,
			Category:      domain.CategoryForScore(score),
			RiskFactors:   []string{"High systolic blood pressure (Stage 2)"},
			EngineVersion: "1.0.0",
			ScoredAt:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("session-1", 0, 88)
	require.NoError(t, store.Save(ctx, record))
	assert.NotZero(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	got, err := store.GetBySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "session-1", got[0].SessionID)
	assert.Equal(t, 88, got[0].OverallScore)
	assert.Equal(t, domain.GOOD, got[0].Category)
	require.NotNil(t, got[0].Result)
	assert.Equal(t, []string{"High systolic blood pressure (Stage 2)"}, got[0].Result.RiskFactors)
}

func TestSQLiteStore_UpsertReplacesSameWeek(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord("session-1", 4, 70)))
	require.NoError(t, store.Save(ctx, sampleRecord("session-1", 4, 82)))

	got, err := store.GetBySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 82, got[0].OverallScore)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStore_GetBySessionOrdersByWeek(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, week := range []int{8, 0, 4} {
		require.NoError(t, store.Save(ctx, sampleRecord("session-1", week, 60+week)))
	}
	require.NoError(t, store.Save(ctx, sampleRecord("session-2", 1, 90)))

	got, err := store.GetBySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 4, 8}, []int{got[0].Week, got[1].Week, got[2].Week})
}

func TestSQLiteStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, sampleRecord("session-1", i, 50+i)))
	}

	got, err := store.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	rest, err := store.List(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestSQLiteStore_EmptySession(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetBySession(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
