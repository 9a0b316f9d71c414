package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "incidentrag",
	Short: "AI-powered incident analysis backed by historical incident retrieval",
	Long: `incidentrag analyzes IT incidents by retrieving similar historical
incidents from a knowledge base and asking a Claude model on Amazon
Bedrock for a diagnosis, root cause, and recommended actions. It also
supports ad-hoc document-augmented queries against the model.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".incidentrag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
