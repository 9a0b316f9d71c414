package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the
// resulting config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to incidentrag! Let's configure your environment.")
	fmt.Println()

	cfg := DefaultConfig()

	regionPrompt := promptui.Prompt{
		Label:   "AWS region",
		Default: cfg.Region,
	}
	region, err := regionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("region prompt: %w", err)
	}
	cfg.Region = region

	modelPrompt := promptui.Prompt{
		Label:   "Bedrock model ID",
		Default: cfg.ModelID,
	}
	modelID, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model prompt: %w", err)
	}
	cfg.ModelID = modelID

	modePrompt := promptui.Select{
		Label: "Retrieval backend",
		Items: []string{
			"knowledgebase (managed Bedrock Knowledge Base)",
			"local         (on-disk index, dev/offline)",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("retrieval mode selection: %w", err)
	}

	if modeIdx == 0 {
		cfg.Retrieval.Mode = RetrievalKnowledgeBase

		kbPrompt := promptui.Prompt{Label: "Knowledge Base ID"}
		kbID, err := kbPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("knowledge base prompt: %w", err)
		}
		cfg.KnowledgeBaseID = kbID

		bucketPrompt := promptui.Prompt{Label: "S3 bucket for incident attachments (empty to skip)"}
		bucket, err := bucketPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("bucket prompt: %w", err)
		}
		cfg.S3Bucket = bucket
	} else {
		cfg.Retrieval.Mode = RetrievalLocal

		embPrompt := promptui.Select{
			Label: "Embedding provider for the local index",
			Items: []string{"openai", "ollama"},
		}
		_, provider, err := embPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("embedding provider selection: %w", err)
		}
		cfg.Retrieval.EmbeddingProvider = EmbeddingProvider(provider)
		if cfg.Retrieval.EmbeddingProvider == EmbeddingOllama {
			cfg.Retrieval.EmbeddingModel = "nomic-embed-text"
		}
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}
