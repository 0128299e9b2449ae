package driven

import "context"

// LLMService wraps a remote text-generation capability.
//
// Implementations map transport timeouts, authentication failures, and rate
// limiting to errors wrapping domain.ErrGenerationUnavailable. Prompt
// assembly, history windowing, and confidence parsing live in the core
// generation service, not in adapters.
//
// Implementations may include:
//   - Groq (llama-3.3-70b-versatile)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the reply text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
