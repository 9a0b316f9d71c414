package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/analyzer"
	"github.com/ziadkadry99/incident-rag/internal/db"
	"github.com/ziadkadry99/incident-rag/internal/history"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [incident description]",
	Short: "Analyze an incident using similar historical incidents",
	Long: `Retrieves similar historical incidents, builds a grounding context, and
asks the model for a diagnosis, root cause, and recommended actions.
Each analysis is recorded in the local history database.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("incident-id", "", "identifier of the incident being analyzed")
	analyzeCmd.Flags().Int("max-similar", analyzer.DefaultMaxSimilarIncidents, "maximum similar incidents to retrieve")
	analyzeCmd.Flags().Bool("no-attachments", false, "skip attachment lookup for similar incidents")
	analyzeCmd.Flags().Bool("no-optimize", false, "skip query optimization, search with the raw description")
	analyzeCmd.Flags().Bool("json", false, "output the full analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	description := args[0]

	incidentID, _ := cmd.Flags().GetString("incident-id")
	maxSimilar, _ := cmd.Flags().GetInt("max-similar")
	noAttachments, _ := cmd.Flags().GetBool("no-attachments")
	noOptimize, _ := cmd.Flags().GetBool("no-optimize")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, _, err := createAnalyzer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	resp, err := a.Analyze(ctx, analyzer.IncidentAnalysisRequest{
		IncidentDescription: description,
		IncidentID:          incidentID,
		MaxSimilarIncidents: maxSimilar,
		IncludeAttachments:  !noAttachments,
		OptimizeQuery:       !noOptimize,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cfg.HistoryPath != "" {
		if err := recordAnalysis(ctx, cfg.HistoryPath, incidentID, resp); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record analysis in history: %v\n", err)
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printAnalysis(resp)
	return nil
}

func recordAnalysis(ctx context.Context, path, incidentID string, resp *analyzer.IncidentAnalysisResponse) error {
	database, err := db.Open(path)
	if err != nil {
		return err
	}
	defer database.Close()

	store := history.NewStore(database)
	_, err = store.Add(ctx, history.Record{
		CreatedAt:      time.Now().UTC(),
		IncidentID:     incidentID,
		OriginalQuery:  resp.OriginalQuery,
		OptimizedQuery: resp.OptimizedQuery,
		Diagnosis:      resp.Diagnosis,
		Confidence:     resp.ConfidenceScore,
		SimilarCount:   len(resp.SimilarIncidents),
		InputTokens:    resp.InputTokens,
		OutputTokens:   resp.OutputTokens,
		ModelID:        resp.ModelID,
	})
	return err
}

func printAnalysis(resp *analyzer.IncidentAnalysisResponse) {
	fmt.Printf("Diagnosis\n  %s\n\n", resp.Diagnosis)
	fmt.Printf("Root cause\n  %s\n\n", resp.RootCause)
	if len(resp.RecommendedActions) > 0 {
		fmt.Println("Recommended actions")
		for i, action := range resp.RecommendedActions {
			fmt.Printf("  %d. %s\n", i+1, action)
		}
		fmt.Println()
	}
	fmt.Printf("Confidence: %.0f%%\n", resp.ConfidenceScore*100)

	if resp.OptimizedQuery != "" && resp.OptimizedQuery != resp.OriginalQuery {
		fmt.Printf("Search query used: %s\n", resp.OptimizedQuery)
	}

	if len(resp.SimilarIncidents) > 0 {
		fmt.Printf("\nSimilar incidents (%d):\n", len(resp.SimilarIncidents))
		for i, inc := range resp.SimilarIncidents {
			fmt.Printf("  %d. [%.1f%%] %s: %s\n", i+1, inc.SimilarityScore*100, inc.IncidentID, inc.Title)
			if len(inc.Attachments) > 0 {
				fmt.Printf("     Attachments: %s\n", strings.Join(inc.Attachments, ", "))
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n[%s] input tokens: %d, output tokens: %d\n",
		resp.ModelID, resp.InputTokens, resp.OutputTokens)
}
