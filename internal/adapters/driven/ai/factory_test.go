package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("openai without key fails", func(t *testing.T) {
		t.Setenv(EnvOpenAIKey, "")
		settings := domain.DefaultSettings()
		settings.EmbeddingBackend = "openai"

		_, err := CreateEmbeddingService(settings)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
	})

	t.Run("openai with key", func(t *testing.T) {
		t.Setenv(EnvOpenAIKey, "test-key")
		settings := domain.DefaultSettings()
		settings.EmbeddingBackend = "openai"

		svc, err := CreateEmbeddingService(settings)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.EmbeddingBackend = "ollama"

		svc, err := CreateEmbeddingService(settings)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "nomic-embed-text", svc.ModelName())
	})

	t.Run("unknown backend", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.EmbeddingBackend = "cohere"

		_, err := CreateEmbeddingService(settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported embedding backend")
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("groq without key fails", func(t *testing.T) {
		t.Setenv(EnvGroqKey, "")
		settings := domain.DefaultSettings()
		settings.GenerationBackend = "groq"

		_, err := CreateLLMService(settings)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrGenerationUnavailable))
	})

	t.Run("groq with key", func(t *testing.T) {
		t.Setenv(EnvGroqKey, "test-key")
		settings := domain.DefaultSettings()
		settings.GenerationBackend = "groq"

		svc, err := CreateLLMService(settings)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "llama-3.3-70b-versatile", svc.ModelName())
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.GenerationBackend = "ollama"

		svc, err := CreateLLMService(settings)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "llama3.2", svc.ModelName())
	})

	t.Run("unknown backend", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.GenerationBackend = "claude"

		_, err := CreateLLMService(settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported generation backend")
	})
}
