package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// CreateConversation stores a new conversation.
func (s *conversationStore) CreateConversation(ctx context.Context, conv domain.Conversation) error {
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, document_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, conv.ID, conv.DocumentID, conv.Title, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *conversationStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, title, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id)

	var conv domain.Conversation
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&conv.ID, &conv.DocumentID, &conv.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	if createdAt.Valid {
		conv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		conv.UpdatedAt = updatedAt.Time
	}
	return &conv, nil
}

// ListConversations returns conversations ordered by last update descending.
func (s *conversationStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, title, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&conv.ID, &conv.DocumentID, &conv.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if createdAt.Valid {
			conv.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			conv.UpdatedAt = updatedAt.Time
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return convs, nil
}

// DeleteConversation removes a conversation. Messages cascade.
func (s *conversationStore) DeleteConversation(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AppendMessage records a turn and bumps the conversation's update time.
func (s *conversationStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var confidence sql.NullFloat64
	if msg.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *msg.Confidence, Valid: true}
	}

	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, role, content, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ConversationID, msg.Role, msg.Content, confidence, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading message id: %w", err)
	}
	msg.ID = id

	if _, err := s.store.db.ExecContext(ctx, `
		UPDATE conversations SET updated_at = ? WHERE id = ?
	`, time.Now().UTC(), msg.ConversationID); err != nil {
		return fmt.Errorf("updating conversation: %w", err)
	}
	return nil
}

// History returns the last limit messages in chronological order.
func (s *conversationStore) History(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, confidence, created_at
		FROM messages WHERE conversation_id = ? ORDER BY id`
	args := []any{conversationID}

	if limit > 0 {
		// Take the newest rows, then reverse back to chronological order.
		query = `
			SELECT id, conversation_id, role, content, confidence, created_at
			FROM (
				SELECT id, conversation_id, role, content, confidence, created_at
				FROM messages WHERE conversation_id = ? ORDER BY id DESC LIMIT ?
			) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var confidence sql.NullFloat64
		var createdAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if confidence.Valid {
			v := confidence.Float64
			msg.Confidence = &v
		}
		if createdAt.Valid {
			msg.CreatedAt = createdAt.Time
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}
