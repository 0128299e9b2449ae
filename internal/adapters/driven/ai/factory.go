// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"os"

	ollamaembed "github.com/askbase/askbase-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/askbase/askbase-cli/internal/adapters/driven/embedding/openai"
	groqllm "github.com/askbase/askbase-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/askbase/askbase-cli/internal/adapters/driven/llm/ollama"
	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// Environment variables holding API credentials. Keys are never written to
// the settings file.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGroqKey   = "GROQ_API_KEY"
)

// CreateEmbeddingService creates the embedding service named by the settings.
func CreateEmbeddingService(settings domain.Settings) (driven.EmbeddingService, error) {
	switch settings.EmbeddingBackend {
	case "openai":
		apiKey := os.Getenv(EnvOpenAIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: %s is not set", domain.ErrEmbeddingUnavailable, EnvOpenAIKey)
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{APIKey: apiKey})

	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding backend: %s", settings.EmbeddingBackend)
	}
}

// CreateLLMService creates the generation service named by the settings.
func CreateLLMService(settings domain.Settings) (driven.LLMService, error) {
	switch settings.GenerationBackend {
	case "groq":
		apiKey := os.Getenv(EnvGroqKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: %s is not set", domain.ErrGenerationUnavailable, EnvGroqKey)
		}
		return groqllm.NewLLMService(groqllm.Config{APIKey: apiKey})

	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{}), nil

	default:
		return nil, fmt.Errorf("unsupported generation backend: %s", settings.GenerationBackend)
	}
}
