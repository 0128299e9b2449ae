package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/askbase/askbase-cli/internal/adapters/driving/tui"
	"github.com/askbase/askbase-cli/internal/core/domain"
)

var chatDocumentID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a document interactively",
	Long: `Opens an interactive chat session with an ingested document. Without
--document, the most recently ingested completed document is used.

Controls:
  Enter       - Send message
  Esc, Ctrl+C - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatDocumentID, "document", "d", "", "document ID to chat with")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery to get stack traces out of the alternate screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatService == nil || documentService == nil {
		return errors.New("chat service not configured")
	}

	doc, err := resolveChatDocument(cmd.Context(), chatDocumentID)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Chat:     chatService,
		Document: documentService,
	}, doc)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// resolveChatDocument picks the document to chat with. An explicit ID wins;
// otherwise the most recently uploaded completed document is used.
func resolveChatDocument(ctx context.Context, id string) (*domain.Document, error) {
	docs, err := documentService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	if id != "" {
		for i := range docs {
			if docs[i].ID == id {
				return &docs[i], nil
			}
		}
		return nil, fmt.Errorf("document %s not found", id)
	}

	for i := range docs {
		if docs[i].Status == domain.StatusCompleted {
			return &docs[i], nil
		}
	}
	return nil, errors.New("no completed documents; run 'askbase ingest' first")
}
