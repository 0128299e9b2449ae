package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
	"github.com/askbase/askbase-cli/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates the ingestion pipeline for one document at a
// time: chunk, embed, insert into the index, persist.
type IngestService struct {
	chunker  *chunker.Processor
	embedder driven.EmbeddingService
	cache    *IndexCache
	docs     driven.DocumentStore
	settings domain.Settings
	log      zerolog.Logger
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	proc *chunker.Processor,
	embedder driven.EmbeddingService,
	cache *IndexCache,
	docs driven.DocumentStore,
	settings domain.Settings,
	log zerolog.Logger,
) *IngestService {
	return &IngestService{
		chunker:  proc,
		embedder: embedder,
		cache:    cache,
		docs:     docs,
		settings: settings,
		log:      log.With().Str("component", "ingest").Logger(),
	}
}

// IngestText runs the pipeline for a document. The document's status reaches
// exactly one terminal state: completed on success, failed on any error. A
// partially embedded document is never inserted; the index only sees chunks
// after every embedding for the document succeeded.
func (s *IngestService) IngestText(ctx context.Context, documentID, text string) (count int, err error) {
	if err := s.docs.MarkProcessing(ctx, documentID); err != nil {
		return 0, fmt.Errorf("marking document processing: %w", err)
	}

	defer func() {
		if err != nil {
			if markErr := s.docs.MarkFailed(context.WithoutCancel(ctx), documentID); markErr != nil {
				s.log.Error().Err(markErr).Str("document_id", documentID).Msg("failed to mark document failed")
			}
			return
		}
		if markErr := s.docs.MarkCompleted(ctx, documentID, count); markErr != nil {
			s.log.Error().Err(markErr).Str("document_id", documentID).Msg("failed to mark document completed")
		}
	}()

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: document %s has no extractable text", domain.ErrIngestionFailed, documentID)
	}
	s.log.Info().Str("document_id", documentID).Int("chunks", len(chunks)).Msg("document chunked")

	if max := s.settings.MaxChunksPerDocument; max > 0 && len(chunks) > max {
		s.log.Warn().
			Str("document_id", documentID).
			Int("chunks", len(chunks)).
			Int("cap", max).
			Msg("chunk cap exceeded, truncating")
		chunks = chunks[:max]
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("%w: embedding document %s: %w", domain.ErrIngestionFailed, documentID, err)
	}

	if err := s.cache.Insert(documentID, chunks, vectors); err != nil {
		return 0, fmt.Errorf("%w: indexing document %s: %w", domain.ErrIngestionFailed, documentID, err)
	}

	s.log.Info().Str("document_id", documentID).Int("chunks", len(chunks)).Msg("document ingested")
	return len(chunks), nil
}
