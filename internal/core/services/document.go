package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes document listing and deletion. Deletion removes
// the document's chunks from the vector index by rebuilding it without them.
type DocumentService struct {
	docs  driven.DocumentStore
	cache *IndexCache
	log   zerolog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(docs driven.DocumentStore, cache *IndexCache, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		docs:  docs,
		cache: cache,
		log:   log.With().Str("component", "documents").Logger(),
	}
}

// Create registers a pending document record for the given filename.
func (s *DocumentService) Create(ctx context.Context, filename string) (*domain.Document, error) {
	now := time.Now()
	doc := domain.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		Status:     domain.StatusPending,
		UploadedAt: now,
		UpdatedAt:  now,
	}

	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	s.log.Info().Str("document_id", doc.ID).Str("filename", filename).Msg("document created")
	return &doc, nil
}

// List returns all known documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docs.ListDocuments(ctx)
}

// Delete removes a document's metadata and rebuilds the vector index without
// its chunks. The index rebuild happens first so a failure leaves the
// document record intact and the operation retryable.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if _, err := s.docs.GetDocument(ctx, id); err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}

	if err := s.cache.RebuildExcluding(id); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if err := s.docs.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	s.log.Info().Str("document_id", id).Msg("document deleted")
	return nil
}
