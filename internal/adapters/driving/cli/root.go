// Package cli implements the cobra command tree, the driving adapter for
// terminal usage. Services are injected by the composition root before
// Execute runs.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/askbase/askbase-cli/internal/adapters/driven/config/file"
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
)

// version is set by SetVersion from the build.
var version = "dev"

// Injected services. Commands nil-check these so the tree stays testable
// without a full composition root.
var (
	ingestService    driving.IngestService
	chatService      driving.ChatService
	documentService  driving.DocumentService
	retrievalService driving.RetrievalService
	settingsStore    *file.SettingsStore
	credentialsStore *file.CredentialsStore
)

// Services aggregates everything the command tree needs.
type Services struct {
	Ingest      driving.IngestService
	Chat        driving.ChatService
	Document    driving.DocumentService
	Retrieval   driving.RetrievalService
	Settings    *file.SettingsStore
	Credentials *file.CredentialsStore
}

// SetServices injects the service implementations used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	chatService = s.Chat
	documentService = s.Document
	retrievalService = s.Retrieval
	settingsStore = s.Settings
	credentialsStore = s.Credentials
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "askbase",
	Short: "Chat with your documents from the terminal",
	Long: `Askbase ingests plain-text documents, indexes them with vector
embeddings, and answers questions about them using retrieval-augmented
generation.

Start by ingesting a document, then ask one-shot questions or open an
interactive chat:

  askbase ingest notes.txt
  askbase ask "What is this document about?"
  askbase chat`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
