package domain

// Chunk is a bounded text segment with an associated embedding vector and
// source document. Chunks are immutable once inserted into the vector index.
type Chunk struct {
	// ID is a monotonically increasing insertion ordinal assigned by the
	// vector index. Ascending ID recovers the original document order.
	ID int64

	// DocumentID links to the parent document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Embedding is the normalised vector representation of Content.
	Embedding []float32
}
