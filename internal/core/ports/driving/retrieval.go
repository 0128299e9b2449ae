package driving

import (
	"context"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// RetrievalService answers relevance queries against the vector index.
type RetrievalService interface {
	// Retrieve returns the top chunks for the query. An absent index yields
	// an empty result, not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.Chunk, error)

	// RetrieveFirstChunks bypasses ranking and returns the first k chunks of
	// a document in original order. Used for summary requests, where
	// relevance ranking is inappropriate.
	RetrieveFirstChunks(ctx context.Context, documentID string, k int) ([]domain.Chunk, error)

	// Stats returns the index cache statistics projection.
	Stats() domain.CacheStats
}
