// Package memory provides in-memory document and conversation stores.
// Intended for tests and throwaway environments; nothing survives the
// process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// DocumentStore is an in-memory driven.DocumentStore.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

var _ driven.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]domain.Document)}
}

// CreateDocument stores a new document record.
func (s *DocumentStore) CreateDocument(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[doc.ID]; ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}
	s.docs[doc.ID] = doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// ListDocuments returns documents ordered by upload time descending.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteDocument removes a document record.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// MarkProcessing transitions the document to the processing state.
func (s *DocumentStore) MarkProcessing(_ context.Context, id string) error {
	return s.setStatus(id, domain.StatusProcessing, -1)
}

// MarkCompleted transitions the document to completed with its chunk count.
func (s *DocumentStore) MarkCompleted(_ context.Context, id string, chunkCount int) error {
	return s.setStatus(id, domain.StatusCompleted, chunkCount)
}

// MarkFailed transitions the document to the failed state.
func (s *DocumentStore) MarkFailed(_ context.Context, id string) error {
	return s.setStatus(id, domain.StatusFailed, -1)
}

func (s *DocumentStore) setStatus(id string, status domain.DocumentStatus, chunkCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Status = status
	if chunkCount >= 0 {
		doc.ChunkCount = chunkCount
	}
	doc.UpdatedAt = time.Now()
	s.docs[id] = doc
	return nil
}

// ConversationStore is an in-memory driven.ConversationStore.
type ConversationStore struct {
	mu       sync.Mutex
	convs    map[string]domain.Conversation
	messages map[string][]domain.Message
	nextID   int64
}

var _ driven.ConversationStore = (*ConversationStore)(nil)

// NewConversationStore creates an empty in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		convs:    make(map[string]domain.Conversation),
		messages: make(map[string][]domain.Message),
	}
}

// CreateConversation stores a new conversation.
func (s *ConversationStore) CreateConversation(_ context.Context, conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[conv.ID]; ok {
		return fmt.Errorf("conversation %s: %w", conv.ID, domain.ErrAlreadyExists)
	}
	s.convs[conv.ID] = conv
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *ConversationStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	return &conv, nil
}

// ListConversations returns conversations ordered by last update descending.
func (s *ConversationStore) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Conversation, 0, len(s.convs))
	for _, conv := range s.convs {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *ConversationStore) DeleteConversation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[id]; !ok {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	delete(s.convs, id)
	delete(s.messages, id)
	return nil
}

// AppendMessage records a turn, assigns the message ID, and bumps the
// conversation's update time.
func (s *ConversationStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[msg.ConversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", msg.ConversationID, domain.ErrNotFound)
	}

	s.nextID++
	msg.ID = s.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], *msg)

	conv.UpdatedAt = time.Now()
	s.convs[msg.ConversationID] = conv
	return nil
}

// History returns the last limit messages in chronological order.
// limit <= 0 returns all messages.
func (s *ConversationStore) History(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
