package driven

import (
	"context"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// DocumentStore persists document records and their ingestion status.
type DocumentStore interface {
	// CreateDocument stores a new document record.
	// Returns domain.ErrAlreadyExists if the ID is taken.
	CreateDocument(ctx context.Context, doc domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by upload time descending.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document record and its conversations.
	DeleteDocument(ctx context.Context, id string) error

	// MarkProcessing transitions the document to the processing state.
	MarkProcessing(ctx context.Context, id string) error

	// MarkCompleted transitions the document to completed and records the
	// indexed chunk count.
	MarkCompleted(ctx context.Context, id string, chunkCount int) error

	// MarkFailed transitions the document to the failed state.
	MarkFailed(ctx context.Context, id string) error
}
