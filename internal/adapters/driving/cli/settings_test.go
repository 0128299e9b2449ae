package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

func TestSettingsCmd_ListShowsDefaults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "chunk_size:              500")
	assert.Contains(t, buf.String(), "retrieval_k:             6")
	assert.Contains(t, buf.String(), "embedding_backend:       openai")
	assert.Contains(t, buf.String(), "openai: (not set)")
}

func TestSettingsCmd_SetPersistsValue(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "chunk_size", "900"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Updated chunk_size to 900.")

	settings, err := settingsStore.Load()
	require.NoError(t, err)
	assert.Equal(t, 900, settings.ChunkSize)
}

func TestSettingsCmd_SetRejectsUnknownKey(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "nope", "1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestSettingsCmd_SetRejectsInvalidValue(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "chunk_size", "lots"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for chunk_size")
}

func TestSettingsCmd_SetValidatesCrossField(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	// overlap must stay below chunk size, so this save must fail
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set", "chunk_overlap", "5000"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)

	settings, loadErr := settingsStore.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, domain.DefaultSettings().ChunkOverlap, settings.ChunkOverlap)
}

func TestSettingsCmd_SetKeyRejectsUnknownProvider(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings", "set-key", "anthropic"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestApplySetting(t *testing.T) {
	s := domain.DefaultSettings()

	require.NoError(t, applySetting(&s, "diversity", "0.5"))
	assert.InDelta(t, 0.5, s.Diversity, 1e-9)

	require.NoError(t, applySetting(&s, "use_diversity_search", "false"))
	assert.False(t, s.UseDiversitySearch)

	require.NoError(t, applySetting(&s, "generation_backend", "ollama"))
	assert.Equal(t, "ollama", s.GenerationBackend)

	assert.Error(t, applySetting(&s, "use_diversity_search", "maybe"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
