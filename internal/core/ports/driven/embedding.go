package driven

import "context"

// EmbeddingService maps text to fixed-length vectors.
//
// Implementations batch internally when the input count exceeds the backend's
// per-call limit and preserve input order in the output. They do not retry:
// on auth failure, quota exhaustion, or timeout they return an error wrapping
// domain.ErrEmbeddingUnavailable and leave retry policy to the caller.
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, ...)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// EmbedQuery generates a vector embedding for a single query text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates embeddings for document chunks, preserving
	// input order. Both methods return vectors of the same dimensionality.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
