// Command askbase is the entry point for the askbase CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/askbase/askbase-cli/internal/adapters/driven/ai"
	"github.com/askbase/askbase-cli/internal/adapters/driven/config/file"
	"github.com/askbase/askbase-cli/internal/adapters/driven/storage/sqlite"
	"github.com/askbase/askbase-cli/internal/adapters/driven/vectorindex"
	"github.com/askbase/askbase-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/askbase/askbase-cli/internal/adapters/driving/cli"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
	"github.com/askbase/askbase-cli/internal/core/services"
	"github.com/askbase/askbase-cli/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("initialising settings store: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	credentialsStore, err := file.NewCredentialsStore("")
	if err != nil {
		return fmt.Errorf("initialising credentials store: %w", err)
	}
	if err := exportStoredKeys(credentialsStore); err != nil {
		return err
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	// A missing API key must not block commands that do not need the
	// backend, such as settings set-key. Dependent services stay nil and
	// their commands report themselves as not configured.
	embedder, embErr := ai.CreateEmbeddingService(settings)
	if embErr != nil {
		logger.Warn().Err(embErr).Msg("embedding backend unavailable")
	}
	llm, llmErr := ai.CreateLLMService(settings)
	if llmErr != nil {
		logger.Warn().Err(llmErr).Msg("generation backend unavailable")
	}

	snapshotPath := filepath.Join(filepath.Dir(store.Path()), "index.gob")
	cache := services.NewIndexCache(flat.NewStore(), snapshotPath, func() driven.VectorIndex {
		return flat.New()
	}, logger)

	watcher, err := vectorindex.NewWatcher(snapshotPath, vectorindex.DefaultDebounce, cache.ForceReload, logger)
	if err != nil {
		return fmt.Errorf("creating snapshot watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("starting snapshot watcher: %w", err)
	}
	defer watcher.Close()

	proc := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	wired := cli.Services{
		Document:    services.NewDocumentService(store.DocumentStore(), cache, logger),
		Settings:    settingsStore,
		Credentials: credentialsStore,
	}

	if embErr == nil {
		retrievalSvc := services.NewRetrievalService(cache, embedder, settings, logger)
		wired.Ingest = services.NewIngestService(proc, embedder, cache, store.DocumentStore(), settings, logger)
		wired.Retrieval = retrievalSvc

		if llmErr == nil {
			genSvc := services.NewGenerationService(llm, settings, logger)
			wired.Chat = services.NewChatService(retrievalSvc, genSvc, store.DocumentStore(), store.ConversationStore(), settings, logger)
		}
	}

	cli.SetVersion(version)
	cli.SetServices(wired)

	return cli.Execute()
}

// exportStoredKeys promotes stored API keys into the environment when the
// corresponding variable is unset. Environment variables keep precedence.
func exportStoredKeys(store *file.CredentialsStore) error {
	creds, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if os.Getenv(ai.EnvOpenAIKey) == "" && creds.OpenAIKey != "" {
		if err := os.Setenv(ai.EnvOpenAIKey, creds.OpenAIKey); err != nil {
			return fmt.Errorf("exporting OpenAI key: %w", err)
		}
	}
	if os.Getenv(ai.EnvGroqKey) == "" && creds.GroqKey != "" {
		if err := os.Setenv(ai.EnvGroqKey, creds.GroqKey); err != nil {
			return fmt.Errorf("exporting Groq key: %w", err)
		}
	}
	return nil
}
