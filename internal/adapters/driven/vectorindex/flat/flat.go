// Package flat provides an exact nearest-neighbour vector index over
// normalised embeddings, with gob snapshot persistence.
//
// The index is deliberately flat: similarity is a full scan over all chunks.
// Deletion is not supported in place; callers rebuild via RebuildExcluding,
// which reconstructs a fresh index from the retained chunk set.
package flat

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores chunks in insertion order and answers cosine similarity
// queries by exhaustive scan. Vectors are normalised on insert, so cosine
// similarity reduces to a dot product.
//
// Index performs no internal locking; the index cache serialises access.
type Index struct {
	chunks []domain.Chunk
	nextID int64
}

// snapshot is the gob wire format for a persisted index.
type snapshot struct {
	Chunks []domain.Chunk
	NextID int64
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Insert appends chunks in input order, assigning increasing chunk IDs
// continuing from the current maximum.
func (x *Index) Insert(documentID string, texts []string, vectors [][]float32) error {
	if documentID == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	if len(texts) != len(vectors) {
		return fmt.Errorf("%w: %d texts but %d vectors", domain.ErrInvalidInput, len(texts), len(vectors))
	}

	for i, text := range texts {
		x.chunks = append(x.chunks, domain.Chunk{
			ID:         x.nextID,
			DocumentID: documentID,
			Content:    text,
			Embedding:  normalise(vectors[i]),
		})
		x.nextID++
	}
	return nil
}

// scored pairs a chunk index with its similarity to the query.
type scored struct {
	pos int
	sim float64
}

// SimilaritySearch returns the k chunks with highest cosine similarity to the
// query vector, ties broken by ascending chunk ID.
func (x *Index) SimilaritySearch(query []float32, k int) []domain.Chunk {
	hits := x.rank(query)
	if k < len(hits) {
		hits = hits[:k]
	}
	return x.collect(hits)
}

// DiversitySearch fetches the fetchK nearest chunks and greedily selects k of
// them maximising
//
//	diversity*(1 - maxSimToSelected) + (1-diversity)*simToQuery
//
// at each step (maximal marginal relevance). Ties break by ascending chunk ID.
func (x *Index) DiversitySearch(query []float32, k, fetchK int, diversity float64) []domain.Chunk {
	candidates := x.rank(query)
	if fetchK < len(candidates) {
		candidates = candidates[:fetchK]
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]scored, 0, k)
	remaining := make([]scored, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			maxSim := 0.0
			for _, sel := range selected {
				sim := dot(x.chunks[cand.pos].Embedding, x.chunks[sel.pos].Embedding)
				if sim > maxSim {
					maxSim = sim
				}
			}

			score := diversity*(1-maxSim) + (1-diversity)*cand.sim
			if score > bestScore ||
				(score == bestScore && bestIdx >= 0 && x.chunks[cand.pos].ID < x.chunks[remaining[bestIdx].pos].ID) {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return x.collect(selected)
}

// EnumerateByDocument returns the document's chunks in ascending chunk ID
// order, i.e. original text order.
func (x *Index) EnumerateByDocument(documentID string) []domain.Chunk {
	var out []domain.Chunk
	for _, c := range x.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out
}

// RebuildExcluding returns a fresh index containing every chunk whose
// document is not the given one, preserving original chunk IDs. Returns
// (nil, false) when no chunks remain.
func (x *Index) RebuildExcluding(documentID string) (driven.VectorIndex, bool) {
	fresh := New()
	for _, c := range x.chunks {
		if c.DocumentID != documentID {
			fresh.chunks = append(fresh.chunks, c)
			if c.ID >= fresh.nextID {
				fresh.nextID = c.ID + 1
			}
		}
	}
	if len(fresh.chunks) == 0 {
		return nil, false
	}
	return fresh, true
}

// Len returns the total chunk count.
func (x *Index) Len() int {
	return len(x.chunks)
}

// DocumentCount returns the number of distinct documents indexed.
func (x *Index) DocumentCount() int {
	seen := make(map[string]struct{})
	for _, c := range x.chunks {
		seen[c.DocumentID] = struct{}{}
	}
	return len(seen)
}

// Save persists a snapshot to path. The write goes through a temp file and
// rename so readers of the path never observe a partial snapshot.
func (x *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := gob.NewEncoder(tmp)
	if err := enc.Encode(snapshot{Chunks: x.chunks, NextID: x.nextID}); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// rank scores every chunk against the query and sorts by descending
// similarity, ties by ascending chunk ID.
func (x *Index) rank(query []float32) []scored {
	q := normalise(query)

	hits := make([]scored, len(x.chunks))
	for i, c := range x.chunks {
		hits[i] = scored{pos: i, sim: dot(q, c.Embedding)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].sim != hits[j].sim {
			return hits[i].sim > hits[j].sim
		}
		return x.chunks[hits[i].pos].ID < x.chunks[hits[j].pos].ID
	})
	return hits
}

// collect maps scored hits back to chunks.
func (x *Index) collect(hits []scored) []domain.Chunk {
	out := make([]domain.Chunk, len(hits))
	for i, h := range hits {
		out[i] = x.chunks[h.pos]
	}
	return out
}

// normalise returns a unit-length copy of v. A zero vector is returned as a
// copy unchanged.
func normalise(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

// dot computes the dot product of two equal-length vectors. For normalised
// vectors this is the cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Store loads and removes persisted snapshots.
type Store struct{}

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// NewStore creates a snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Load reads a snapshot from path. A missing snapshot yields (nil, nil).
func (s *Store) Load(path string) (driven.VectorIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &Index{chunks: snap.Chunks, nextID: snap.NextID}, nil
}

// Remove deletes the snapshot at path, if present.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}
