package driven

import (
	"context"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// ConversationStore persists conversations and their messages.
// The chat orchestrator consumes history as a plain ordered sequence; it does
// not interpret store internals.
type ConversationStore interface {
	// CreateConversation stores a new conversation.
	CreateConversation(ctx context.Context, conv domain.Conversation) error

	// GetConversation retrieves a conversation by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// ListConversations returns conversations ordered by last update descending.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// DeleteConversation removes a conversation and all its messages.
	DeleteConversation(ctx context.Context, id string) error

	// AppendMessage records a turn and bumps the conversation's update time.
	// The store assigns Message.ID.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// History returns the last limit messages of a conversation in
	// chronological order. limit <= 0 returns all messages.
	History(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}
