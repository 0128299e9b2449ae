package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// noContextFallback substitutes for retrieved context when nothing relevant
// was found, so the model can answer honestly instead of hallucinating.
const noContextFallback = "No relevant information found in the document."

// welcomeChunks is how many leading chunks seed the welcome summary and
// suggested questions.
const welcomeChunks = 10

// summaryKeywords classify a message as a summary request via
// case-insensitive substring match.
var summaryKeywords = []string{
	"summary", "summarize", "summarise", "overview", "main points",
	"key points", "tldr", "tl;dr", "brief", "what is this about",
	"what does this document", "what's this document", "tell me about this",
	"describe this", "explain this document", "what is in this",
}

// ChatService orchestrates a conversation turn: classify intent, retrieve
// context, generate an answer, persist the turns. It holds no per-turn state
// beyond what the stores supply.
type ChatService struct {
	retrieval driving.RetrievalService
	gen       *GenerationService
	docs      driven.DocumentStore
	convs     driven.ConversationStore
	settings  domain.Settings
	log       zerolog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(
	retrieval driving.RetrievalService,
	gen *GenerationService,
	docs driven.DocumentStore,
	convs driven.ConversationStore,
	settings domain.Settings,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		gen:       gen,
		docs:      docs,
		convs:     convs,
		settings:  settings,
		log:       log.With().Str("component", "chat").Logger(),
	}
}

// StartConversation creates a conversation for a completed document and
// best-effort generates welcome content. Welcome generation failures degrade
// to empty content, logged at warning level, never fatal.
func (s *ChatService) StartConversation(ctx context.Context, documentID, title string) (*domain.Conversation, *domain.WelcomeContent, error) {
	doc, err := s.docs.GetDocument(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up document: %w", err)
	}
	if doc.Status != domain.StatusCompleted {
		return nil, nil, fmt.Errorf("%w: document %s status is %s", domain.ErrDocumentNotReady, documentID, doc.Status)
	}

	if title == "" {
		title = "Chat about " + doc.Filename
	}

	now := time.Now().UTC()
	conv := domain.Conversation{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.convs.CreateConversation(ctx, conv); err != nil {
		return nil, nil, fmt.Errorf("creating conversation: %w", err)
	}

	welcome := s.generateWelcome(ctx, conv.ID, doc)
	return &conv, welcome, nil
}

// generateWelcome builds the best-effort welcome content for a new
// conversation. Any failure yields empty content.
func (s *ChatService) generateWelcome(ctx context.Context, conversationID string, doc *domain.Document) *domain.WelcomeContent {
	welcome := &domain.WelcomeContent{}

	chunks, err := s.retrieval.RetrieveFirstChunks(ctx, doc.ID, welcomeChunks)
	if err != nil || len(chunks) == 0 {
		if err != nil {
			s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("welcome retrieval failed")
		}
		return welcome
	}

	contextText := joinChunks(chunks)
	welcome.Summary = s.gen.DocumentSummary(ctx, contextText)
	welcome.SuggestedQuestions = s.gen.SuggestedQuestions(ctx, contextText, doc.Filename)

	if welcome.Summary != "" {
		confidence := 1.0
		msg := domain.Message{
			ConversationID: conversationID,
			Role:           domain.RoleAssistant,
			Content:        welcome.Summary,
			Confidence:     &confidence,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.convs.AppendMessage(ctx, &msg); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist welcome message")
		}
	}
	return welcome
}

// Send records the user message, retrieves context, generates a reply, and
// records the assistant turn. Embedding or generation failures degrade to
// the fixed apology with absent confidence; the turn still succeeds.
func (s *ChatService) Send(ctx context.Context, conversationID, message string) (*domain.ChatResult, error) {
	conv, err := s.convs.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("looking up conversation: %w", err)
	}
	if _, err := s.docs.GetDocument(ctx, conv.DocumentID); err != nil {
		return nil, fmt.Errorf("looking up document: %w", err)
	}

	userMsg := domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        message,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.convs.AppendMessage(ctx, &userMsg); err != nil {
		return nil, fmt.Errorf("recording user message: %w", err)
	}

	history, err := s.convs.History(ctx, conversationID, s.settings.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	isSummary := isSummaryRequest(message)
	answer, confidence := s.answer(ctx, conv.DocumentID, message, history, isSummary)

	assistantMsg := domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        answer,
		Confidence:     confidence,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.convs.AppendMessage(ctx, &assistantMsg); err != nil {
		return nil, fmt.Errorf("recording assistant message: %w", err)
	}

	return &domain.ChatResult{
		ConversationID: conversationID,
		Answer:         answer,
		Confidence:     confidence,
		SummaryRequest: isSummary,
	}, nil
}

// Ask answers a one-shot question without persisting any turns. A positive
// k overrides the configured retrieval depth.
func (s *ChatService) Ask(ctx context.Context, question, documentID string, k int) (*domain.ChatResult, error) {
	if documentID != "" {
		if _, err := s.docs.GetDocument(ctx, documentID); err != nil {
			return nil, fmt.Errorf("looking up document: %w", err)
		}
	}

	isSummary := documentID != "" && isSummaryRequest(question)
	history := []domain.Message{{Role: domain.RoleUser, Content: question}}
	answer, confidence := s.answerK(ctx, documentID, question, history, isSummary, k)

	return &domain.ChatResult{
		Answer:         answer,
		Confidence:     confidence,
		SummaryRequest: isSummary,
	}, nil
}

// answer retrieves context and generates the reply, degrading backend
// failures to the fixed apology. Retrieval holds the index lock; the
// generation call runs strictly after the lock is released.
func (s *ChatService) answer(ctx context.Context, documentID, message string, history []domain.Message, isSummary bool) (string, *float64) {
	return s.answerK(ctx, documentID, message, history, isSummary, 0)
}

func (s *ChatService) answerK(ctx context.Context, documentID, message string, history []domain.Message, isSummary bool, k int) (string, *float64) {
	if k <= 0 {
		k = s.settings.RetrievalK
	}

	var chunks []domain.Chunk
	var err error

	if isSummary {
		chunks, err = s.retrieval.RetrieveFirstChunks(ctx, documentID, k)
	} else {
		chunks, err = s.retrieval.Retrieve(ctx, message, domain.RetrievalOptions{
			DocumentID: documentID,
			K:          k,
		})
	}
	if err != nil {
		s.log.Error().Err(err).Str("document_id", documentID).Msg("retrieval failed")
		return Apology, nil
	}

	contextText := noContextFallback
	if len(chunks) > 0 {
		contextText = joinChunks(chunks)
	}

	answer, confidence, err := s.gen.Complete(ctx, history, contextText)
	if err != nil {
		s.log.Error().Err(err).Msg("generation failed")
		return Apology, nil
	}
	return answer, confidence
}

// isSummaryRequest classifies a message as a summary/overview request.
func isSummaryRequest(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, keyword := range summaryKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// joinChunks assembles retrieved chunk texts into a context block.
func joinChunks(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	return strings.Join(texts, "\n\n")
}
