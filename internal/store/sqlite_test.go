package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_ImplementsStore(t *testing.T) {
	var _ Store = newTestSQLiteStore(t)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

// --- Runs ---

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	seeds := []string{"https://expo.example.com/exhibitors", "https://assoc.example.org/members"}
	run, err := st.CreateRun(ctx, seeds)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, seeds, got.SeedURLs)
	assert.Equal(t, model.RunStatusQueued, got.Status)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusSearching))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSearching, got.Status)
	assert.Empty(t, got.SeedURLs)

	err = st.UpdateRunStatus(ctx, "missing", model.RunStatusFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_UpdateRunResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	ok, err := st.CreateRun(ctx, []string{"https://a.example"})
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunResult(ctx, ok.ID, &model.RunResult{
		Companies:      []string{"Acme", "Globex"},
		ContactsFound:  6,
		ContactsUnique: 5,
	}))

	got, err := st.GetRun(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, []string{"Acme", "Globex"}, got.Result.Companies)
	assert.Equal(t, 5, got.Result.ContactsUnique)

	failed, err := st.CreateRun(ctx, []string{"https://b.example"})
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunResult(ctx, failed.ID, &model.RunResult{Error: "crawl: boom"}))

	got, err = st.GetRun(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "crawl: boom", got.Result.Error)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	var ids []string
	for range 3 {
		run, err := st.CreateRun(ctx, []string{"https://a.example"})
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}
	require.NoError(t, st.UpdateRunStatus(ctx, ids[1], model.RunStatusFailed))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, ids[1], failed[0].ID)

	page, err := st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := st.ListRuns(ctx, RunFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

// --- Phases ---

func TestSQLite_Phases(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, []string{"https://a.example"})
	require.NoError(t, err)

	crawl, err := st.CreatePhase(ctx, run.ID, "crawl")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseStatusRunning, crawl.Status)
	require.NoError(t, st.CompletePhase(ctx, crawl.ID, &model.PhaseResult{
		Name:     "crawl",
		Status:   model.PhaseStatusComplete,
		Duration: 1200,
		Metadata: map[string]any{"chars": 5000},
	}))

	extract, err := st.CreatePhase(ctx, run.ID, "extract")
	require.NoError(t, err)
	require.NoError(t, st.CompletePhase(ctx, extract.ID, &model.PhaseResult{
		Name:   "extract",
		Status: model.PhaseStatusFailed,
		Error:  "anthropic: empty response",
	}))

	phases, err := st.ListPhases(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, "crawl", phases[0].Name)
	assert.Equal(t, model.PhaseStatusComplete, phases[0].Status)
	require.NotNil(t, phases[0].Result)
	assert.Equal(t, int64(1200), phases[0].Result.Duration)
	assert.InDelta(t, 5000, phases[0].Result.Metadata["chars"], 0)
	assert.Equal(t, model.PhaseStatusFailed, phases[1].Status)
	assert.Equal(t, "anthropic: empty response", phases[1].Result.Error)

	err = st.CompletePhase(ctx, "missing", &model.PhaseResult{Status: model.PhaseStatusComplete})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListPhases_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	phases, err := st.ListPhases(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, phases)
}
