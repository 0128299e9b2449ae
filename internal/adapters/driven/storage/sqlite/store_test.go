package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// createTestDocument inserts a completed document for foreign key parents.
func createTestDocument(t *testing.T, store *Store, id string) {
	t.Helper()
	require.NoError(t, store.DocumentStore().CreateDocument(context.Background(), domain.Document{
		ID:       id,
		Filename: id + ".txt",
		Status:   domain.StatusCompleted,
	}))
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same database must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestDocumentStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	uploaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, docs.CreateDocument(ctx, domain.Document{
		ID:         "doc-1",
		Filename:   "report.txt",
		Status:     domain.StatusPending,
		UploadedAt: uploaded,
	}))

	doc, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "report.txt", doc.Filename)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.Equal(t, 0, doc.ChunkCount)
	assert.True(t, doc.UploadedAt.Equal(uploaded))

	err = docs.CreateDocument(ctx, domain.Document{ID: "doc-1", Filename: "other.txt"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_StatusTransitions(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.CreateDocument(ctx, domain.Document{ID: "doc-1", Filename: "a.txt"}))

	require.NoError(t, docs.MarkProcessing(ctx, "doc-1"))
	doc, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, doc.Status)

	require.NoError(t, docs.MarkCompleted(ctx, "doc-1", 42))
	doc, err = docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, 42, doc.ChunkCount)

	require.NoError(t, docs.MarkFailed(ctx, "doc-1"))
	doc, err = docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Equal(t, 42, doc.ChunkCount)

	err = docs.MarkProcessing(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ListOrdering(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	require.NoError(t, docs.CreateDocument(ctx, domain.Document{ID: "old", Filename: "old.txt", UploadedAt: older}))
	require.NoError(t, docs.CreateDocument(ctx, domain.Document{ID: "new", Filename: "new.txt", UploadedAt: newer}))

	list, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestDocumentStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	createTestDocument(t, store, "doc-1")

	convs := store.ConversationStore()
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-1", DocumentID: "doc-1", Title: "t",
	}))
	require.NoError(t, convs.AppendMessage(ctx, &domain.Message{
		ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi",
	}))

	require.NoError(t, store.DocumentStore().DeleteDocument(ctx, "doc-1"))

	_, err := convs.GetConversation(ctx, "conv-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	history, err := convs.History(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	err = store.DocumentStore().DeleteDocument(ctx, "doc-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConversationStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	createTestDocument(t, store, "doc-1")

	convs := store.ConversationStore()
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-1", DocumentID: "doc-1", Title: "Chat about doc-1.txt",
	}))

	conv, err := convs.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", conv.DocumentID)
	assert.Equal(t, "Chat about doc-1.txt", conv.Title)
	assert.False(t, conv.CreatedAt.IsZero())

	_, err = convs.GetConversation(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConversationStore_AppendMessageAndHistory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	createTestDocument(t, store, "doc-1")

	convs := store.ConversationStore()
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-1", DocumentID: "doc-1", Title: "t",
	}))

	confidence := 0.85
	turns := []domain.Message{
		{ConversationID: "conv-1", Role: domain.RoleUser, Content: "first"},
		{ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "second", Confidence: &confidence},
		{ConversationID: "conv-1", Role: domain.RoleUser, Content: "third"},
	}
	for i := range turns {
		require.NoError(t, convs.AppendMessage(ctx, &turns[i]))
		assert.NotZero(t, turns[i].ID)
	}

	history, err := convs.History(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Nil(t, history[0].Confidence)
	require.NotNil(t, history[1].Confidence)
	assert.InDelta(t, 0.85, *history[1].Confidence, 1e-9)

	// A limit keeps the newest turns in chronological order.
	history, err = convs.History(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Content)
	assert.Equal(t, "third", history[1].Content)
}

func TestConversationStore_AppendBumpsUpdateTime(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	createTestDocument(t, store, "doc-1")
	createTestDocument(t, store, "doc-2")

	convs := store.ConversationStore()
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-1", DocumentID: "doc-1", Title: "a",
		CreatedAt: time.Now().UTC().Add(-time.Hour), UpdatedAt: time.Now().UTC().Add(-time.Hour),
	}))
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-2", DocumentID: "doc-2", Title: "b",
	}))

	require.NoError(t, convs.AppendMessage(ctx, &domain.Message{
		ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi",
	}))

	list, err := convs.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "conv-1", list[0].ID)
}

func TestConversationStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	createTestDocument(t, store, "doc-1")

	convs := store.ConversationStore()
	require.NoError(t, convs.CreateConversation(ctx, domain.Conversation{
		ID: "conv-1", DocumentID: "doc-1", Title: "t",
	}))
	require.NoError(t, convs.AppendMessage(ctx, &domain.Message{
		ConversationID: "conv-1", Role: domain.RoleUser, Content: "hi",
	}))

	require.NoError(t, convs.DeleteConversation(ctx, "conv-1"))

	_, err := convs.GetConversation(ctx, "conv-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = convs.DeleteConversation(ctx, "conv-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
