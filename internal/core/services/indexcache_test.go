package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

func newTestCache(t *testing.T, path string) *IndexCache {
	t.Helper()
	return NewIndexCache(
		flat.NewStore(),
		path,
		func() driven.VectorIndex { return flat.New() },
		zerolog.Nop(),
	)
}

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "index.gob")
}

func TestIndexCache_SearchWithoutIndex(t *testing.T) {
	cache := newTestCache(t, snapshotPath(t))

	called := false
	ok, err := cache.Search(func(driven.VectorIndex) { called = true })
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)

	stats := cache.Stats()
	assert.False(t, stats.IsLoaded)
	assert.Equal(t, uint64(1), stats.SearchCount)
	assert.Equal(t, uint64(0), stats.CacheHits)
	assert.Equal(t, 0.0, stats.CacheHitRate)
	assert.Nil(t, stats.LoadedAt)
}

func TestIndexCache_InsertThenSearch(t *testing.T) {
	cache := newTestCache(t, snapshotPath(t))

	err := cache.Insert("doc-a",
		[]string{"alpha", "beta"},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	)
	require.NoError(t, err)

	var results []domain.Chunk
	ok, err := cache.Search(func(idx driven.VectorIndex) {
		results = idx.SimilaritySearch([]float32{1, 0, 0}, 1)
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", results[0].Content)

	stats := cache.Stats()
	assert.True(t, stats.IsLoaded)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 2, stats.TotalChunks)
	require.NotNil(t, stats.LoadedAt)
	require.NotNil(t, stats.LastUpdated)
}

func TestIndexCache_HitRateAllWarm(t *testing.T) {
	cache := newTestCache(t, snapshotPath(t))
	require.NoError(t, cache.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))

	for range 10 {
		_, err := cache.Search(func(driven.VectorIndex) {})
		require.NoError(t, err)
	}

	stats := cache.Stats()
	assert.Equal(t, uint64(10), stats.SearchCount)
	assert.Equal(t, uint64(10), stats.CacheHits)
	assert.Equal(t, 100.0, stats.CacheHitRate)
}

func TestIndexCache_LazyLoadNotCountedAsHit(t *testing.T) {
	path := snapshotPath(t)

	writer := newTestCache(t, path)
	require.NoError(t, writer.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))

	// Fresh cache on the same snapshot: the first search has to load from
	// disk, only subsequent searches find the index warm.
	reader := newTestCache(t, path)
	ok, err := reader.Search(func(driven.VectorIndex) {})
	require.NoError(t, err)
	require.True(t, ok)

	stats := reader.Stats()
	assert.Equal(t, uint64(1), stats.SearchCount)
	assert.Equal(t, uint64(0), stats.CacheHits)
	assert.Equal(t, 0.0, stats.CacheHitRate)

	_, err = reader.Search(func(driven.VectorIndex) {})
	require.NoError(t, err)

	stats = reader.Stats()
	assert.Equal(t, uint64(2), stats.SearchCount)
	assert.Equal(t, uint64(1), stats.CacheHits)
	assert.Equal(t, 50.0, stats.CacheHitRate)
}

func TestIndexCache_ViewDoesNotCount(t *testing.T) {
	cache := newTestCache(t, snapshotPath(t))
	require.NoError(t, cache.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))

	ok, err := cache.View(func(driven.VectorIndex) {})
	require.NoError(t, err)
	require.True(t, ok)

	stats := cache.Stats()
	assert.Equal(t, uint64(0), stats.SearchCount)
	assert.Equal(t, uint64(0), stats.CacheHits)
}

func TestIndexCache_RebuildExcluding(t *testing.T) {
	cache := newTestCache(t, snapshotPath(t))
	require.NoError(t, cache.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))
	require.NoError(t, cache.Insert("doc-b", []string{"b"}, [][]float32{{0, 1, 0}}))

	require.NoError(t, cache.RebuildExcluding("doc-a"))

	var remaining []domain.Chunk
	ok, err := cache.View(func(idx driven.VectorIndex) {
		remaining = idx.EnumerateByDocument("doc-b")
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Content)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 1, stats.TotalChunks)
}

func TestIndexCache_RebuildLastDocumentRemovesSnapshot(t *testing.T) {
	path := snapshotPath(t)
	cache := newTestCache(t, path)
	require.NoError(t, cache.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))
	require.FileExists(t, path)

	require.NoError(t, cache.RebuildExcluding("doc-a"))

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	stats := cache.Stats()
	assert.False(t, stats.IsLoaded)
	assert.Equal(t, 0, stats.DocumentCount)
	assert.Equal(t, 0, stats.TotalChunks)
}

func TestIndexCache_ForceReload(t *testing.T) {
	path := snapshotPath(t)

	writer := newTestCache(t, path)
	require.NoError(t, writer.Insert("doc-a", []string{"a"}, [][]float32{{1, 0, 0}}))

	reader := newTestCache(t, path)
	_, err := reader.Search(func(driven.VectorIndex) {})
	require.NoError(t, err)
	assert.Equal(t, 1, reader.Stats().DocumentCount)

	// Out-of-process mutation: another writer extends the snapshot file.
	require.NoError(t, writer.Insert("doc-b", []string{"b"}, [][]float32{{0, 1, 0}}))

	require.NoError(t, reader.ForceReload())
	stats := reader.Stats()
	assert.Equal(t, 2, stats.DocumentCount)
	assert.Equal(t, 2, stats.TotalChunks)
}
