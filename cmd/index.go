package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/config"
	"github.com/ziadkadry99/incident-rag/internal/retrieval"
)

var indexCmd = &cobra.Command{
	Use:   "index [incidents.json]",
	Short: "Build the local retrieval index from a JSON incident export",
	Long: `Reads a JSON array of historical incident records, embeds them, and
persists a local vector index. The index is used when retrieval.mode
is set to "local", so the analyzer can run without a provisioned
knowledge base.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	inputPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Retrieval.Mode != config.RetrievalLocal {
		fmt.Fprintln(os.Stderr, "Note: retrieval.mode is not \"local\"; the index will be built but not used until you switch modes.")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	var records []retrieval.IncidentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no incident records", inputPath)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return err
	}

	index, err := retrieval.NewLocalIndex(embedder, logger)
	if err != nil {
		return fmt.Errorf("creating local index: %w", err)
	}

	fmt.Printf("Embedding %d incident records with %s...\n", len(records), embedder.Name())
	if err := index.Add(ctx, records); err != nil {
		return fmt.Errorf("indexing incidents: %w", err)
	}

	if err := index.Persist(cfg.Retrieval.IndexDir); err != nil {
		return fmt.Errorf("persisting index to %s: %w", cfg.Retrieval.IndexDir, err)
	}

	fmt.Printf("Indexed %d incidents into %s\n", index.Count(), cfg.Retrieval.IndexDir)
	return nil
}
