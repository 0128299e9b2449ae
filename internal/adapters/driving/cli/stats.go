package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index cache statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats := retrievalService.Stats()

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Index Cache")
	cmd.Println("===========")
	cmd.Printf("  Loaded:       %t\n", stats.IsLoaded)
	if stats.LoadedAt != nil {
		cmd.Printf("  Loaded at:    %s\n", stats.LoadedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("  Documents:    %d\n", stats.DocumentCount)
	cmd.Printf("  Total chunks: %d\n", stats.TotalChunks)
	cmd.Printf("  Searches:     %d\n", stats.SearchCount)
	cmd.Printf("  Cache hits:   %d\n", stats.CacheHits)
	cmd.Printf("  Hit rate:     %.2f%%\n", stats.CacheHitRate)
	if stats.LastUpdated != nil {
		cmd.Printf("  Last updated: %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}
