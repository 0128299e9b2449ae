package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askDocumentID string
	askK          int
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Answers a single question against the indexed documents without
creating a conversation. Use --document to restrict retrieval to one
document.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocumentID, "document", "d", "", "restrict to a document ID")
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "number of chunks to retrieve (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	result, err := chatService.Ask(context.Background(), args[0], askDocumentID, askK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	if result.Confidence != nil {
		cmd.Println()
		cmd.Printf("Confidence: %.2f\n", *result.Confidence)
	}
	return nil
}
