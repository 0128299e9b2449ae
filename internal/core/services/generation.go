package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// Generation timeouts. Suggested questions are an enhancement and get a
// shorter budget than the primary answer path.
const (
	answerTimeout      = 30 * time.Second
	enhancementTimeout = 20 * time.Second
)

// Apology is returned in place of an answer when the generation backend is
// unavailable. The turn still succeeds from the caller's point of view.
const Apology = "I apologize, but I'm having trouble generating a response right now. Please try again in a moment."

// maxSuggestedQuestions caps the suggested follow-up questions.
const maxSuggestedQuestions = 3

// confidencePattern matches a trailing [CONFIDENCE: 0.87] annotation.
var confidencePattern = regexp.MustCompile(`(?i)\[CONFIDENCE:\s*([0-9]*\.?[0-9]+)\]\s*$`)

const answerSystemPrompt = `You are a friendly AI assistant helping a user explore a document they have uploaded to the system.

IMPORTANT: The user has ALREADY LOADED A DOCUMENT into this conversation. You have access to relevant excerpts from that document below.

CONVERSATIONAL BEHAVIOR:
- Respond naturally to greetings (Hi, Hello, Hey, etc.)
- Acknowledge thank yous politely
- Be warm and conversational, not robotic
- For greetings, don't say "no document provided" - the document EXISTS and is loaded

ANSWERING QUESTIONS:
- When the user asks actual questions, use the relevant excerpts provided below
- Give detailed, comprehensive answers when information is available
- If the specific answer isn't in the excerpts, state: "That specific information isn't in this section of the document."
- Cite specific details when answering questions

SUMMARY REQUESTS:
- If asked for a summary/overview, synthesize the excerpts into a coherent summary
- Highlight main topics, key points, and important information from the excerpts
- Don't say "no information available" if excerpts are provided - summarize what's there!

CONFIDENCE SCORING:
End every response with: [CONFIDENCE: X.XX] where X.XX is 0.0-1.0

===== RELEVANT DOCUMENT EXCERPTS =====
%s
===== END OF EXCERPTS =====`

// GenerationService assembles bounded conversation payloads for the LLM
// backend and extracts the self-reported confidence annotation from replies.
type GenerationService struct {
	llm      driven.LLMService
	settings domain.Settings
	log      zerolog.Logger
}

// NewGenerationService creates a new generation service.
func NewGenerationService(llm driven.LLMService, settings domain.Settings, log zerolog.Logger) *GenerationService {
	return &GenerationService{
		llm:      llm,
		settings: settings,
		log:      log.With().Str("component", "generation").Logger(),
	}
}

// Complete sends the windowed history plus a system instruction embedding the
// retrieved context, and returns the reply with its parsed confidence.
// Only the last HistoryWindow turns are sent; older turns are silently
// dropped as a context-window bound.
func (s *GenerationService) Complete(ctx context.Context, history []domain.Message, contextText string) (string, *float64, error) {
	window := s.settings.HistoryWindow
	if len(history) > window {
		history = history[len(history)-window:]
	}

	messages := make([]driven.ChatMessage, 0, len(history)+1)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(answerSystemPrompt, contextText),
	})
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.settings.GenerationMaxTokens,
		Temperature: s.settings.GenerationTemperature,
	})
	if err != nil {
		return "", nil, fmt.Errorf("chat completion: %w", err)
	}

	answer, confidence := s.ParseConfidence(strings.TrimSpace(reply))
	return answer, confidence, nil
}

// ParseConfidence extracts a trailing [CONFIDENCE: x] annotation. A missing,
// malformed, or out-of-range annotation yields the input unchanged and a nil
// confidence; it is never an error.
func (s *GenerationService) ParseConfidence(text string) (string, *float64) {
	match := confidencePattern.FindStringSubmatchIndex(text)
	if match == nil {
		return text, nil
	}

	raw := text[match[2]:match[3]]
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warn().Str("value", raw).Msg("unparseable confidence annotation")
		return text, nil
	}
	if score < 0 || score > 1 {
		s.log.Warn().Float64("score", score).Msg("confidence annotation out of range")
		return text, nil
	}

	cleaned := strings.TrimRight(text[:match[0]], " \t\n")
	return cleaned, &score
}

// DocumentSummary generates a summary from initial document context. This is
// a best-effort enhancement: failures are logged at warning level and
// degrade to an empty result.
func (s *GenerationService) DocumentSummary(ctx context.Context, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		return ""
	}

	prompt := "Provide a concise summary of the following document excerpts. " +
		"Cover the main topics and key points in a few sentences.\n\n" + contextText

	ctx, cancel := context.WithTimeout(ctx, enhancementTimeout)
	defer cancel()

	reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   s.settings.GenerationMaxTokens,
		Temperature: s.settings.GenerationTemperature,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("document summary generation failed")
		return ""
	}

	// The summary prompt doesn't ask for a confidence trailer, but models
	// conditioned by earlier turns sometimes add one anyway.
	summary, _ := s.ParseConfidence(strings.TrimSpace(reply))
	return summary
}

// SuggestedQuestions generates up to three short follow-up questions from
// document context. Best-effort: failures degrade to an empty result.
func (s *GenerationService) SuggestedQuestions(ctx context.Context, contextText, displayName string) []string {
	if strings.TrimSpace(contextText) == "" {
		return nil
	}

	prompt := fmt.Sprintf(
		"Based on the following excerpts from %q, suggest 3 short questions a reader might ask about it. "+
			"Reply with one question per line and nothing else.\n\n%s",
		displayName, contextText)

	ctx, cancel := context.WithTimeout(ctx, enhancementTimeout)
	defer cancel()

	reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   300,
		Temperature: s.settings.GenerationTemperature,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("suggested question generation failed")
		return nil
	}

	return parseQuestionList(reply)
}

// parseQuestionList splits a reply into clean question lines, dropping list
// markers and anything that isn't a question.
func parseQuestionList(reply string) []string {
	var questions []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789.) ")
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxSuggestedQuestions {
			break
		}
	}
	return questions
}
