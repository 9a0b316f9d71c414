package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/incident-rag/internal/bedrock"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check configuration and Bedrock connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		fmt.Printf("Region:          %s\n", cfg.Region)
		fmt.Printf("Model:           %s\n", cfg.ModelID)
		fmt.Printf("Retrieval mode:  %s\n", cfg.Retrieval.Mode)

		if cfg.KnowledgeBaseID != "" {
			fmt.Printf("Knowledge base:  %s\n", cfg.KnowledgeBaseID)
		} else {
			fmt.Println("Knowledge base:  not configured")
		}
		if cfg.S3Bucket != "" {
			fmt.Printf("Attachments:     s3://%s/%s\n", cfg.S3Bucket, cfg.AttachmentsPrefix)
		} else {
			fmt.Println("Attachments:     not configured")
		}

		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return err
		}

		client := bedrock.New(awsCfg, cfg.ModelID, logger)
		if client.CheckConnection(ctx) {
			fmt.Println("Bedrock:         reachable")
			return nil
		}
		return fmt.Errorf("Bedrock is not reachable; check credentials and region")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
