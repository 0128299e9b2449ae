package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers relevance queries using the index cache.
type RetrievalService struct {
	cache    *IndexCache
	embedder driven.EmbeddingService
	settings domain.Settings
	log      zerolog.Logger
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	cache *IndexCache,
	embedder driven.EmbeddingService,
	settings domain.Settings,
	log zerolog.Logger,
) *RetrievalService {
	return &RetrievalService{
		cache:    cache,
		embedder: embedder,
		settings: settings,
		log:      log.With().Str("component", "retrieval").Logger(),
	}
}

// Retrieve returns the top chunks for the query, optionally restricted to one
// document. An absent index yields an empty result, not an error.
//
// The query is embedded before the index lock is taken, so the network call
// never blocks concurrent index access. Document filtering happens after
// ranking: a document whose chunks do not dominate the global top-K yields
// fewer than K results. That precision/cost trade-off keeps the index
// unpartitioned.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.Chunk, error) {
	k := opts.K
	if k <= 0 {
		k = s.settings.RetrievalK
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	useDiversity := s.settings.UseDiversitySearch
	switch opts.Mode {
	case domain.ModeSimilarity:
		useDiversity = false
	case domain.ModeDiversity:
		useDiversity = true
	}

	var results []domain.Chunk
	ok, err := s.cache.Search(func(idx driven.VectorIndex) {
		if useDiversity {
			results = idx.DiversitySearch(queryVec, k, s.settings.DiversityFetchK, s.settings.Diversity)
		} else {
			results = idx.SimilaritySearch(queryVec, k)
		}
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn().Msg("no vector index available for search")
		return nil, nil
	}

	if opts.DocumentID != "" {
		filtered := results[:0]
		for _, c := range results {
			if c.DocumentID == opts.DocumentID {
				filtered = append(filtered, c)
			}
		}
		results = filtered
	}

	s.log.Debug().
		Int("results", len(results)).
		Bool("diversity", useDiversity).
		Str("document_id", opts.DocumentID).
		Msg("retrieval complete")
	return results, nil
}

// RetrieveFirstChunks returns the first k chunks of a document in original
// order, bypassing relevance ranking entirely.
func (s *RetrievalService) RetrieveFirstChunks(ctx context.Context, documentID string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		k = s.settings.RetrievalK
	}

	var results []domain.Chunk
	ok, err := s.cache.View(func(idx driven.VectorIndex) {
		results = idx.EnumerateByDocument(documentID)
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats returns the index cache statistics projection.
func (s *RetrievalService) Stats() domain.CacheStats {
	return s.cache.Stats()
}
