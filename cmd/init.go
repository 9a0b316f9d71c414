package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize incidentrag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the Bedrock model, retrieval backend, and attachments bucket, and writes a .incidentrag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
