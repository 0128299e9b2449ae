package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/adapters/driven/config/file"
	"github.com/askbase/askbase-cli/internal/core/domain"
)

type mockIngestService struct {
	count   int
	err     error
	lastDoc string
	text    string
}

func (m *mockIngestService) IngestText(_ context.Context, documentID, text string) (int, error) {
	m.lastDoc = documentID
	m.text = text
	return m.count, m.err
}

type mockChatService struct {
	result *domain.ChatResult
	err    error

	question   string
	documentID string
	k          int
}

func (m *mockChatService) StartConversation(_ context.Context, documentID, title string) (*domain.Conversation, *domain.WelcomeContent, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return &domain.Conversation{ID: "conv-1", DocumentID: documentID, Title: title}, nil, nil
}

func (m *mockChatService) Send(_ context.Context, _, _ string) (*domain.ChatResult, error) {
	return m.result, m.err
}

func (m *mockChatService) Ask(_ context.Context, question, documentID string, k int) (*domain.ChatResult, error) {
	m.question = question
	m.documentID = documentID
	m.k = k
	return m.result, m.err
}

type mockDocumentService struct {
	docs      []domain.Document
	createErr error
	deleteErr error
	deleted   []string
}

func (m *mockDocumentService) Create(_ context.Context, filename string) (*domain.Document, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &domain.Document{ID: "doc-new", Filename: filename, Status: domain.StatusPending}, nil
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRetrievalService struct {
	stats domain.CacheStats
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ domain.RetrievalOptions) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockRetrievalService) RetrieveFirstChunks(_ context.Context, _ string, _ int) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockRetrievalService) Stats() domain.CacheStats {
	return m.stats
}

// setupTestServices swaps in mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldIngest := ingestService
	oldChat := chatService
	oldDocument := documentService
	oldRetrieval := retrievalService
	oldSettings := settingsStore
	oldCredentials := credentialsStore

	dir := t.TempDir()
	ss, err := file.NewSettingsStore(dir)
	require.NoError(t, err)
	cs, err := file.NewCredentialsStore(dir)
	require.NoError(t, err)

	confidence := 0.9
	loadedAt := time.Now()

	SetServices(Services{
		Ingest: &mockIngestService{count: 3},
		Chat: &mockChatService{
			result: &domain.ChatResult{Answer: "Widgets are devices.", Confidence: &confidence},
		},
		Document: &mockDocumentService{
			docs: []domain.Document{
				{
					ID:         "doc-1",
					Filename:   "report.txt",
					Status:     domain.StatusCompleted,
					ChunkCount: 12,
					UploadedAt: time.Now(),
				},
			},
		},
		Retrieval: &mockRetrievalService{
			stats: domain.CacheStats{
				IsLoaded:      true,
				LoadedAt:      &loadedAt,
				DocumentCount: 1,
				TotalChunks:   12,
				SearchCount:   4,
				CacheHits:     3,
				CacheHitRate:  75.0,
			},
		},
		Settings:    ss,
		Credentials: cs,
	})

	return func() {
		ingestService = oldIngest
		chatService = oldChat
		documentService = oldDocument
		retrievalService = oldRetrieval
		settingsStore = oldSettings
		credentialsStore = oldCredentials
	}
}
