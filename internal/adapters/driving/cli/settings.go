package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chunking, retrieval, and generation settings.

Settings are stored as TOML. API keys are kept in a separate credentials
file; environment variables take precedence over stored keys.`,
	RunE: runSettingsList,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current settings",
	RunE:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Changes a single setting and persists the settings file.

Available keys:
  chunk_size, chunk_overlap, max_chunks_per_document, retrieval_k,
  use_diversity_search, diversity, diversity_fetch_k,
  generation_temperature, generation_max_tokens, history_window,
  embedding_backend, generation_backend`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key",
	Long: `Stores the API key for a remote provider (openai or groq) in the
credentials file. The key is read without echo when run in a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetKey,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  chunk_size:              %d\n", settings.ChunkSize)
	cmd.Printf("  chunk_overlap:           %d\n", settings.ChunkOverlap)
	cmd.Printf("  max_chunks_per_document: %d\n", settings.MaxChunksPerDocument)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  retrieval_k:             %d\n", settings.RetrievalK)
	cmd.Printf("  use_diversity_search:    %t\n", settings.UseDiversitySearch)
	cmd.Printf("  diversity:               %g\n", settings.Diversity)
	cmd.Printf("  diversity_fetch_k:       %d\n", settings.DiversityFetchK)
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  generation_temperature:  %g\n", settings.GenerationTemperature)
	cmd.Printf("  generation_max_tokens:   %d\n", settings.GenerationMaxTokens)
	cmd.Printf("  history_window:          %d\n", settings.HistoryWindow)
	cmd.Println()

	cmd.Println("[Backends]")
	cmd.Printf("  embedding_backend:       %s\n", settings.EmbeddingBackend)
	cmd.Printf("  generation_backend:      %s\n", settings.GenerationBackend)

	if credentialsStore != nil {
		creds, err := credentialsStore.Load()
		if err != nil {
			return fmt.Errorf("failed to load credentials: %w", err)
		}
		cmd.Println()
		cmd.Println("[API Keys]")
		cmd.Printf("  openai: %s\n", keyStatus(creds.OpenAIKey))
		cmd.Printf("  groq:   %s\n", keyStatus(creds.GroqKey))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	key, value := args[0], args[1]

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := applySetting(&settings, key, value); err != nil {
		return err
	}

	if err := settingsStore.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Updated %s to %s.\n", key, value)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}

	provider := strings.ToLower(args[0])
	if provider != "openai" && provider != "groq" {
		return fmt.Errorf("unknown provider %q (expected openai or groq)", provider)
	}

	cmd.Printf("Enter %s API key: ", provider)
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("empty API key")
	}

	creds, err := credentialsStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	switch provider {
	case "openai":
		creds.OpenAIKey = key
	case "groq":
		creds.GroqKey = key
	}

	if err := credentialsStore.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	cmd.Printf("Stored %s API key (%s) in %s\n", provider, maskAPIKey(key), credentialsStore.Path())
	return nil
}

// applySetting parses value for the named key and assigns it. Validation of
// cross-field constraints happens on save.
func applySetting(s *domain.Settings, key, value string) error {
	switch key {
	case "chunk_size":
		return setInt(&s.ChunkSize, key, value)
	case "chunk_overlap":
		return setInt(&s.ChunkOverlap, key, value)
	case "max_chunks_per_document":
		return setInt(&s.MaxChunksPerDocument, key, value)
	case "retrieval_k":
		return setInt(&s.RetrievalK, key, value)
	case "diversity_fetch_k":
		return setInt(&s.DiversityFetchK, key, value)
	case "generation_max_tokens":
		return setInt(&s.GenerationMaxTokens, key, value)
	case "history_window":
		return setInt(&s.HistoryWindow, key, value)
	case "diversity":
		return setFloat(&s.Diversity, key, value)
	case "generation_temperature":
		return setFloat(&s.GenerationTemperature, key, value)
	case "use_diversity_search":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		s.UseDiversitySearch = b
		return nil
	case "embedding_backend":
		s.EmbeddingBackend = value
		return nil
	case "generation_backend":
		s.GenerationBackend = value
		return nil
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", key, value)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", key, value)
	}
	*dst = f
	return nil
}

func keyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
