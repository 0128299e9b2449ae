package driving

import (
	"context"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// ChatService orchestrates conversation turns over retrieval and generation.
type ChatService interface {
	// StartConversation creates a conversation for a completed document and
	// best-effort generates welcome content (summary, suggested questions).
	// Welcome generation failures are swallowed, never fatal.
	StartConversation(ctx context.Context, documentID, title string) (*domain.Conversation, *domain.WelcomeContent, error)

	// Send records the user message, retrieves context, generates a reply,
	// and records the assistant turn. Backend failures degrade to a fixed
	// apology with absent confidence; the turn still succeeds.
	Send(ctx context.Context, conversationID, message string) (*domain.ChatResult, error)

	// Ask answers a one-shot question without persisting any turns. A
	// positive k overrides the configured retrieval depth.
	Ask(ctx context.Context, question, documentID string, k int) (*domain.ChatResult, error)
}

// DocumentService manages document records and index membership.
type DocumentService interface {
	// Create registers a new pending document record for the given filename
	// and returns it with a generated ID.
	Create(ctx context.Context, filename string) (*domain.Document, error)

	// List returns all document records.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes the document record and rebuilds the vector index
	// without its chunks.
	Delete(ctx context.Context, id string) error
}
