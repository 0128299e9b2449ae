package services

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// IndexCache holds the single live vector index for the process plus usage
// and freshness metadata. All components reach the index through it.
//
// Readers (search, enumerate) hold the read lock for the duration of their
// call. Mutators (insert, rebuild, load, reload) hold the write lock and swap
// in a new index reference; insert appends to the current structure and is
// therefore serialised under the write lock as well.
type IndexCache struct {
	store    driven.IndexStore
	path     string
	newIndex func() driven.VectorIndex
	log      zerolog.Logger

	mu          sync.RWMutex
	index       driven.VectorIndex
	loadedAt    time.Time
	lastUpdated time.Time
	docCount    int
	chunkCount  int

	statsMu     sync.Mutex
	searchCount uint64
	cacheHits   uint64
}

// NewIndexCache creates a cache that persists snapshots at path. newIndex
// constructs an empty index for the first-ever insert.
func NewIndexCache(store driven.IndexStore, path string, newIndex func() driven.VectorIndex, log zerolog.Logger) *IndexCache {
	return &IndexCache{
		store:    store,
		path:     path,
		newIndex: newIndex,
		log:      log.With().Str("component", "indexcache").Logger(),
	}
}

// Search runs fn with the current index under the read lock, counting the
// call in the usage statistics. The index is lazily loaded from the snapshot
// on first access. Returns false when no index exists, in which case fn is
// not called.
func (c *IndexCache) Search(fn func(driven.VectorIndex)) (bool, error) {
	c.statsMu.Lock()
	c.searchCount++
	c.statsMu.Unlock()

	hit, ok, err := c.view(fn)
	if err != nil {
		return false, err
	}
	if hit {
		c.statsMu.Lock()
		c.cacheHits++
		c.statsMu.Unlock()
	}
	return ok, nil
}

// View runs fn with the current index under the read lock without touching
// the usage counters. Used for ordered enumeration and administrative reads.
func (c *IndexCache) View(fn func(driven.VectorIndex)) (bool, error) {
	_, ok, err := c.view(fn)
	return ok, err
}

// view returns (wasAlreadyLoaded, indexAvailable, error).
func (c *IndexCache) view(fn func(driven.VectorIndex)) (bool, bool, error) {
	c.mu.RLock()
	if c.index != nil {
		defer c.mu.RUnlock()
		fn(c.index)
		return true, true, nil
	}
	c.mu.RUnlock()

	if err := c.ensureLoaded(); err != nil {
		return false, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil {
		return false, false, nil
	}
	fn(c.index)
	return false, true, nil
}

// ensureLoaded loads the snapshot if the cache is empty and one exists.
// An absent snapshot leaves the cache empty without error.
func (c *IndexCache) ensureLoaded() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// loadLocked loads the snapshot into the cache. Caller must hold the write lock.
func (c *IndexCache) loadLocked() error {
	if c.index != nil {
		return nil
	}

	idx, err := c.store.Load(c.path)
	if err != nil {
		return fmt.Errorf("loading index snapshot: %w", err)
	}
	if idx == nil {
		return nil
	}

	c.index = idx
	c.loadedAt = time.Now().UTC()
	c.refreshMetadataLocked()
	c.log.Info().
		Int("documents", c.docCount).
		Int("chunks", c.chunkCount).
		Msg("index snapshot loaded")
	return nil
}

// Insert appends a document's chunks to the index, creating the index on
// first insert, then persists the snapshot and refreshes metadata.
func (c *IndexCache) Insert(documentID string, texts []string, vectors [][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return err
	}
	if c.index == nil {
		c.index = c.newIndex()
		c.loadedAt = time.Now().UTC()
		c.log.Info().Msg("created new vector index")
	}

	if err := c.index.Insert(documentID, texts, vectors); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	if err := c.index.Save(c.path); err != nil {
		return fmt.Errorf("saving index snapshot: %w", err)
	}

	c.refreshMetadataLocked()
	c.log.Debug().
		Str("document_id", documentID).
		Int("chunks", len(texts)).
		Msg("chunks indexed")
	return nil
}

// RebuildExcluding replaces the index with a fresh one that omits the given
// document's chunks. When no chunks remain, the index and its snapshot are
// removed wholesale. In-flight readers holding the old reference are
// unaffected by the swap.
func (c *IndexCache) RebuildExcluding(documentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return err
	}
	if c.index == nil {
		c.log.Warn().Str("document_id", documentID).Msg("no index to rebuild")
		return nil
	}

	rebuilt, remaining := c.index.RebuildExcluding(documentID)
	if !remaining {
		c.index = nil
		c.loadedAt = time.Time{}
		if err := c.store.Remove(c.path); err != nil {
			return fmt.Errorf("removing index snapshot: %w", err)
		}
		c.docCount = 0
		c.chunkCount = 0
		c.lastUpdated = time.Now().UTC()
		c.log.Info().Str("document_id", documentID).Msg("index cleared after deleting last document")
		return nil
	}

	if err := rebuilt.Save(c.path); err != nil {
		return fmt.Errorf("saving rebuilt snapshot: %w", err)
	}
	c.index = rebuilt
	c.refreshMetadataLocked()
	c.log.Info().
		Str("document_id", documentID).
		Int("kept_chunks", c.chunkCount).
		Msg("index rebuilt without document")
	return nil
}

// ForceReload discards the in-memory index and reloads from the snapshot.
// Used to recover from out-of-process mutation.
func (c *IndexCache) ForceReload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = nil
	c.loadedAt = time.Time{}
	if err := c.loadLocked(); err != nil {
		return err
	}
	c.log.Info().Bool("loaded", c.index != nil).Msg("index cache reloaded")
	return nil
}

// Stats returns a read-only projection of the cache metadata.
func (c *IndexCache) Stats() domain.CacheStats {
	c.mu.RLock()
	stats := domain.CacheStats{
		IsLoaded:      c.index != nil,
		DocumentCount: c.docCount,
		TotalChunks:   c.chunkCount,
	}
	if !c.loadedAt.IsZero() {
		at := c.loadedAt
		stats.LoadedAt = &at
	}
	if !c.lastUpdated.IsZero() {
		at := c.lastUpdated
		stats.LastUpdated = &at
	}
	c.mu.RUnlock()

	c.statsMu.Lock()
	stats.SearchCount = c.searchCount
	stats.CacheHits = c.cacheHits
	c.statsMu.Unlock()

	if stats.SearchCount > 0 {
		rate := float64(stats.CacheHits) / float64(stats.SearchCount) * 100
		stats.CacheHitRate = math.Round(rate*100) / 100
	}
	return stats
}

// SnapshotPath returns the snapshot location on disk.
func (c *IndexCache) SnapshotPath() string {
	return c.path
}

// refreshMetadataLocked recomputes derived metadata from the current index.
// Caller must hold the write lock.
func (c *IndexCache) refreshMetadataLocked() {
	if c.index == nil {
		c.docCount = 0
		c.chunkCount = 0
	} else {
		c.docCount = c.index.DocumentCount()
		c.chunkCount = c.index.Len()
	}
	c.lastUpdated = time.Now().UTC()
}
