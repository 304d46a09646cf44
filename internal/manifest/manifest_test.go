// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svgpress/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "svgpress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func doneResult(source string, modTime time.Time) types.FileResult {
	var variants []types.VariantResult
	for _, v := range types.AllVariants() {
		variants = append(variants, types.VariantResult{
			Variant: v,
			Output:  "output/" + v.OutputName("poster"),
			Status:  types.VariantDone,
		})
	}
	return types.FileResult{
		Source:     source,
		Background: types.BackgroundWhite,
		Variants:   variants,
		Rasterizer: "inkscape",
		Processor:  "magick",
		ModTime:    modTime,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "svgpress.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
}

func TestRecordAndUnchanged(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	cfg := types.PressConfig{InputDir: "input", OutputDir: "output"}
	runID, err := store.BeginRun(ctx, cfg)
	require.NoError(t, err)
	require.Positive(t, runID)

	modTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, store.RecordFile(ctx, runID, doneResult("input/poster.svg", modTime)))

	unchanged, err := store.Unchanged(ctx, "input/poster.svg", modTime)
	require.NoError(t, err)
	assert.True(t, unchanged, "same mod time with all variants done")

	unchanged, err = store.Unchanged(ctx, "input/poster.svg", modTime.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, unchanged, "different mod time")

	unchanged, err = store.Unchanged(ctx, "input/other.svg", modTime)
	require.NoError(t, err)
	assert.False(t, unchanged, "unknown path")
}

func TestUnchangedRequiresAllVariantsDone(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	runID, err := store.BeginRun(ctx, types.PressConfig{})
	require.NoError(t, err)

	modTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	res := doneResult("input/poster.svg", modTime)
	res.Variants[2].Status = types.VariantFailed
	require.NoError(t, store.RecordFile(ctx, runID, res))

	unchanged, err := store.Unchanged(ctx, "input/poster.svg", modTime)
	require.NoError(t, err)
	assert.False(t, unchanged, "a failed variant must force reconversion")
}

func TestUnchangedUsesLatestRecord(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	runID, err := store.BeginRun(ctx, types.PressConfig{})
	require.NoError(t, err)

	modTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	failed := doneResult("input/poster.svg", modTime)
	failed.Variants[0].Status = types.VariantFailed
	require.NoError(t, store.RecordFile(ctx, runID, failed))
	require.NoError(t, store.RecordFile(ctx, runID, doneResult("input/poster.svg", modTime)))

	unchanged, err := store.Unchanged(ctx, "input/poster.svg", modTime)
	require.NoError(t, err)
	assert.True(t, unchanged, "latest record supersedes earlier failure")
}

func TestRunsHistory(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	first, err := store.BeginRun(ctx, types.PressConfig{InputDir: "input", OutputDir: "output"})
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(ctx, first, 2, 5, 1))

	second, err := store.BeginRun(ctx, types.PressConfig{InputDir: "in2", OutputDir: "out2"})
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(ctx, second, 1, 3, 0))

	runs, err := store.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Equal(t, "in2", runs[0].InputDir)
	assert.Equal(t, 3, runs[0].VariantsDone)

	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 2, runs[1].Files)
	assert.Equal(t, 1, runs[1].VariantsFailed)
	assert.False(t, runs[1].StartedAt.IsZero())
}

func TestRunsLimit(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.BeginRun(ctx, types.PressConfig{})
		require.NoError(t, err)
	}

	runs, err := store.Runs(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
