package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

func TestDocumentStore_CreateGetDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, domain.Document{ID: "doc-1", Filename: "a.txt"}))

	err := store.CreateDocument(ctx, domain.Document{ID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", doc.Filename)

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	_, err = store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListOrdering(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, domain.Document{
		ID: "older", UploadedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, store.CreateDocument(ctx, domain.Document{
		ID: "newer", UploadedAt: time.Now(),
	}))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer", docs[0].ID)
}

func TestDocumentStore_StatusTransitions(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.CreateDocument(ctx, domain.Document{ID: "doc-1", Status: domain.StatusPending}))

	require.NoError(t, store.MarkProcessing(ctx, "doc-1"))
	require.NoError(t, store.MarkCompleted(ctx, "doc-1", 42))

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, 42, doc.ChunkCount)

	assert.ErrorIs(t, store.MarkFailed(ctx, "absent"), domain.ErrNotFound)
}

func TestConversationStore_AppendAndHistory(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.CreateConversation(ctx, domain.Conversation{ID: "conv-1", DocumentID: "doc-1"}))

	confidence := 0.7
	for _, m := range []domain.Message{
		{ConversationID: "conv-1", Role: domain.RoleUser, Content: "first"},
		{ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "second", Confidence: &confidence},
		{ConversationID: "conv-1", Role: domain.RoleUser, Content: "third"},
	} {
		msg := m
		require.NoError(t, store.AppendMessage(ctx, &msg))
		assert.NotZero(t, msg.ID)
	}

	history, err := store.History(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Content)
	assert.Equal(t, "third", history[1].Content)
	require.NotNil(t, history[0].Confidence)
	assert.InDelta(t, 0.7, *history[0].Confidence, 1e-9)

	all, err := store.History(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestConversationStore_AppendToUnknownConversation(t *testing.T) {
	store := NewConversationStore()

	msg := domain.Message{ConversationID: "absent", Role: domain.RoleUser, Content: "hi"}
	err := store.AppendMessage(context.Background(), &msg)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStore_DeleteRemovesMessages(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	require.NoError(t, store.CreateConversation(ctx, domain.Conversation{ID: "conv-1"}))
	msg := domain.Message{ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi"}
	require.NoError(t, store.AppendMessage(ctx, &msg))

	require.NoError(t, store.DeleteConversation(ctx, "conv-1"))

	history, err := store.History(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
