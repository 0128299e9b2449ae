package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a text document",
	Long: `Reads a plain-text file, chunks and embeds its content, and adds it
to the vector index. The document becomes available for ask and chat once
ingestion completes.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil || documentService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	ctx := context.Background()

	doc, err := documentService.Create(ctx, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	cmd.Printf("Ingesting %s...\n", doc.Filename)

	count, err := ingestService.IngestText(ctx, doc.ID, string(data))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Document %s ingested: %d chunks indexed.\n", doc.ID, count)
	return nil
}
