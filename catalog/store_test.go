package catalog

import (
	"context"
	"groqkit"
	"groqkit/common"
	"groqkit/utils"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func openStore(t *testing.T) *Store {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := Open(ctx, filepath.Join(t.TempDir(), "catalog.db"), Config{
		Logger: zerolog.New(zerolog.NewTestWriter(t)),
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })
	return s
}

func newQueries(t *testing.T, opts ...groqkit.Option) *groqkit.Queries {
	t.Helper()
	reg, err := groqkit.DefaultRegistry()
	require.NoError(t, err)
	q, err := groqkit.New(reg, opts...)
	require.NoError(t, err)
	return q
}

func TestSnapshot(t *testing.T) {
	entries, err := Snapshot(newQueries(t))
	require.NoError(t, err)
	assert.Len(t, entries, len(groqkit.Catalog()))
	for _, e := range entries {
		assert.NotEmpty(t, e.Query, e.Name)
		assert.NoError(t, common.Descriptor{Query: e.Query, Params: e.Params.Params()}.Check(), e.Name)
	}
}

func TestSaveAndReadRun(t *testing.T) {
	s := openStore(t)
	entries, err := Snapshot(newQueries(t))
	require.NoError(t, err)

	run, err := s.SaveRun(ctx, "v1", entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), run.Entries)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.Id, runs[0].Id)
	assert.Equal(t, "v1", runs[0].Label)
	assert.True(t, run.CreatedAt.Equal(runs[0].CreatedAt))

	stored, err := s.Entries(ctx, run.Id)
	require.NoError(t, err)
	require.Len(t, stored, len(entries))
	byName := map[string]Entry{}
	for _, e := range stored {
		assert.Equal(t, run.Id, e.RunId)
		byName[e.Name] = e
	}
	detail := byName["getProductBySlug"]
	assert.Equal(t, common.Product, detail.ContentType)
	assert.Equal(t, "detail", detail.UseCase)
	assert.Equal(t, utils.JSONMap{"slug": "paddy-cleaner"}, detail.Params)

	missing, err := common.NewRunId()
	require.NoError(t, err)
	_, err = s.Entries(ctx, missing)
	assert.ErrorIs(t, err, common.ErrRunNotFound)
}

func TestDiff(t *testing.T) {
	s := openStore(t)
	before, err := Snapshot(newQueries(t))
	require.NoError(t, err)
	after, err := Snapshot(newQueries(t, groqkit.WithSearchLimit(50)))
	require.NoError(t, err)

	first, err := s.SaveRun(ctx, "before", before)
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "before again", before)
	require.NoError(t, err)

	changes, err := s.Diff(ctx, first.Id, second.Id)
	require.NoError(t, err)
	assert.Empty(t, changes)

	third, err := s.SaveRun(ctx, "after", append(after[:0:0], after[1:]...))
	require.NoError(t, err)
	changes, err = s.Diff(ctx, second.Id, third.Id)
	require.NoError(t, err)

	kinds := map[string]ChangeKind{}
	for _, c := range changes {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, Removed, kinds[before[0].Name])
	assert.Equal(t, Changed, kinds["searchProducts"])
	assert.Equal(t, Changed, kinds["siteSearch"])
	assert.NotContains(t, kinds, "getProductBySlug")

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, third.Id, runs[0].Id)
}

func TestSaveRunRollsBack(t *testing.T) {
	s := openStore(t)
	entries, err := Snapshot(newQueries(t))
	require.NoError(t, err)

	dup := append(append([]Entry(nil), entries...), entries[0])
	_, err = s.SaveRun(ctx, "broken", dup)
	assert.Error(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	run, err := s.SaveRun(ctx, "fixed", entries)
	require.NoError(t, err)
	stored, err := s.Entries(ctx, run.Id)
	require.NoError(t, err)
	assert.Len(t, stored, len(entries))
}

func TestWriteTxPrepare(t *testing.T) {
	s := openStore(t)
	wtx, err := s.WriteTx(ctx)
	require.NoError(t, err)

	stmt, err := wtx.Prepare(`INSERT INTO export_runs (run_id, label, created_at) VALUES (?, ?, ?)`)
	require.NoError(t, err)
	for _, label := range []string{"a", "b", "c"} {
		id, err := common.NewRunId()
		require.NoError(t, err)
		_, err = stmt.Exec(id, label, time.Now().UTC().Format(timeLayout))
		require.NoError(t, err)
	}
	require.NoError(t, stmt.Close())
	require.NoError(t, wtx.Rollback())

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = wtx.Prepare(`SELECT 1`)
	assert.Error(t, err)
}
