package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/bedrock"
	"github.com/ziadkadry99/incident-rag/internal/document"
	"github.com/ziadkadry99/incident-rag/internal/progress"
)

var queryCmd = &cobra.Command{
	Use:   "query [prompt]",
	Short: "Send a prompt to the model, optionally grounded on local documents",
	Long: `Sends a prompt to the configured Claude model on Bedrock. Files passed
with --file are processed (PDF, image, spreadsheet, Word, text) and
attached to the request; files that fail to process are reported and
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringSliceP("file", "f", nil, "document to attach (repeatable, supports globs)")
	queryCmd.Flags().Int("max-tokens", 0, "override max tokens for this request")
	queryCmd.Flags().Float64("temperature", -1, "override temperature for this request")
	queryCmd.Flags().Bool("json", false, "output the full response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	prompt := args[0]

	filePatterns, _ := cmd.Flags().GetStringSlice("file")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
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

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	client := bedrock.New(awsCfg, cfg.ModelID, logger)

	docs, failed, err := processFiles(filePatterns, document.NewProcessor(logger))
	if err != nil {
		return err
	}
	for _, f := range failed {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.path, f.err)
	}
	if len(filePatterns) > 0 && len(docs) == 0 {
		return fmt.Errorf("none of the given files could be processed")
	}

	req := bedrock.QueryRequest{
		Prompt:    prompt,
		Documents: docs,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	} else {
		req.MaxTokens = cfg.MaxTokens
	}
	if temperature >= 0 {
		req.Temperature = temperature
	} else {
		req.Temperature = cfg.Temperature
	}

	resp, err := client.Invoke(ctx, req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Response)
	fmt.Fprintf(os.Stderr, "\n[%s] input tokens: %d, output tokens: %d\n",
		resp.ModelID, resp.InputTokens, resp.OutputTokens)
	return nil
}

type fileError struct {
	path string
	err  error
}

// processFiles expands glob patterns and normalizes each file into a
// document. Individual failures do not abort the batch.
func processFiles(patterns []string, processor *document.Processor) ([]document.Document, []fileError, error) {
	if len(patterns) == 0 {
		return nil, nil, nil
	}

	paths, err := expandFileArgs(patterns)
	if err != nil {
		return nil, nil, err
	}

	reporter := progress.NewReporter()
	reporter.Start(len(paths))
	defer reporter.Finish()

	var docs []document.Document
	var failed []fileError
	for i, path := range paths {
		reporter.Update(i+1, filepath.Base(path))
		doc, err := processor.Process(path)
		if err != nil {
			failed = append(failed, fileError{path: path, err: err})
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, failed, nil
}
