package domain

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a chat session bound to a single document.
type Conversation struct {
	// ID is the unique identifier for the conversation.
	ID string

	// DocumentID is the document this conversation is about.
	DocumentID string

	// Title is the human-readable conversation title.
	Title string

	// CreatedAt is when the conversation was created.
	CreatedAt time.Time

	// UpdatedAt is when the last message was recorded.
	UpdatedAt time.Time
}

// Message is a single persisted conversation turn.
type Message struct {
	// ID is the store-assigned message identifier, ordered by insertion.
	ID int64

	// ConversationID links to the parent conversation.
	ConversationID string

	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string

	// Confidence is the model's self-reported certainty in [0, 1].
	// Set only on assistant turns when the reply carried a parseable
	// confidence annotation.
	Confidence *float64

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}

// ChatResult is the outcome of a single chat turn.
type ChatResult struct {
	// ConversationID is the conversation the turn belongs to, empty for
	// one-shot questions.
	ConversationID string

	// Answer is the assistant reply text.
	Answer string

	// Confidence is the parsed confidence annotation, nil when absent.
	Confidence *float64

	// SummaryRequest reports whether the turn was classified as a summary
	// request and served from ordered first chunks instead of ranking.
	SummaryRequest bool
}

// WelcomeContent seeds a new conversation with best-effort extras.
// Either field may be empty when the generation backend declined.
type WelcomeContent struct {
	// Summary is a generated document summary.
	Summary string

	// SuggestedQuestions are short follow-up questions, at most three.
	SuggestedQuestions []string
}
