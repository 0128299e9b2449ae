package driven

import "github.com/askbase/askbase-cli/internal/core/domain"

// VectorIndex owns the mapping from chunk identity to (vector, text, document)
// and answers nearest-neighbour queries over it.
//
// Search and enumeration are pure in-memory operations and cannot fail.
// Callers synchronise access through the index cache: readers hold its read
// lock for the duration of the call, mutators (Insert, rebuild, load) hold
// the write lock.
type VectorIndex interface {
	// Insert appends chunks in input order, assigning increasing chunk IDs
	// continuing from the current maximum. texts and vectors must have the
	// same length.
	Insert(documentID string, texts []string, vectors [][]float32) error

	// SimilaritySearch returns the k chunks nearest to the query vector,
	// ties broken by ascending chunk ID.
	SimilaritySearch(query []float32, k int) []domain.Chunk

	// DiversitySearch fetches the fetchK nearest chunks and greedily selects
	// k of them by maximal marginal relevance with the given diversity
	// weight in [0, 1]. diversity=0 degenerates to similarity ranking over
	// the fetched set.
	DiversitySearch(query []float32, k, fetchK int, diversity float64) []domain.Chunk

	// EnumerateByDocument returns the document's chunks in ascending chunk
	// ID order, i.e. original text order. Not a semantic search.
	EnumerateByDocument(documentID string) []domain.Chunk

	// RebuildExcluding returns a fresh index containing every chunk whose
	// document is not the given one, preserving original chunk IDs. The
	// second result is false when no chunks remain.
	RebuildExcluding(documentID string) (VectorIndex, bool)

	// Len returns the total chunk count.
	Len() int

	// DocumentCount returns the number of distinct documents indexed.
	DocumentCount() int

	// Save persists a snapshot of the index to the given path.
	Save(path string) error
}

// IndexStore loads and removes persisted index snapshots.
type IndexStore interface {
	// Load reads a snapshot from path. A missing snapshot yields (nil, nil),
	// not an error: "no documents ingested yet" is a valid steady state.
	Load(path string) (VectorIndex, error)

	// Remove deletes the snapshot at path, if present.
	Remove(path string) error
}
