package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/db"
	"github.com/ziadkadry99/incident-rag/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past incident analyses",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records to show")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return fmt.Errorf("history_path is not configured")
	}

	database, err := db.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer database.Close()

	records, err := history.NewStore(database).List(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No analyses recorded yet.")
		return nil
	}

	for _, rec := range records {
		id := rec.IncidentID
		if id == "" {
			id = "-"
		}
		fmt.Printf("%s  %-12s  conf %.0f%%  similar %d  tokens %d/%d\n",
			rec.CreatedAt.Format("2006-01-02 15:04"),
			id,
			rec.Confidence*100,
			rec.SimilarCount,
			rec.InputTokens,
			rec.OutputTokens,
		)
		fmt.Printf("    %s\n", truncate(rec.Diagnosis, 100))
	}
	return nil
}

// truncate shortens s to at most max runes so multi-byte characters
// are never split mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
