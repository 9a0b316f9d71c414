package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/analyzer"
	"github.com/ziadkadry99/incident-rag/internal/bedrock"
	"github.com/ziadkadry99/incident-rag/internal/config"
	"github.com/ziadkadry99/incident-rag/internal/embeddings"
	"github.com/ziadkadry99/incident-rag/internal/retrieval"
	"github.com/ziadkadry99/incident-rag/internal/storage"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `incidentrag init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger creates the CLI logger. Verbose enables debug output;
// otherwise only warnings and errors reach the terminal so command
// output stays clean.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

// loadAWSConfig resolves AWS credentials and region from the standard
// chain, applying the configured region and optional named profile.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return awsCfg, nil
}

// createEmbedderFromConfig creates the embedder used by the local
// retrieval index.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Retrieval.EmbeddingProvider {
	case config.EmbeddingOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, cfg.Retrieval.EmbeddingModel), nil
	case config.EmbeddingOllama:
		return embeddings.NewOllamaEmbedder(cfg.Retrieval.EmbeddingModel, ""), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Retrieval.EmbeddingProvider)
	}
}

// createRetriever builds the retriever selected by config: the managed
// knowledge base, or the local on-disk index loaded from index_dir.
func createRetriever(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (retrieval.Retriever, error) {
	switch cfg.Retrieval.Mode {
	case config.RetrievalKnowledgeBase:
		return retrieval.NewKnowledgeBase(awsCfg, cfg.KnowledgeBaseID, logger), nil
	case config.RetrievalLocal:
		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		index, err := retrieval.NewLocalIndex(embedder, logger)
		if err != nil {
			return nil, fmt.Errorf("creating local index: %w", err)
		}
		if err := index.Load(cfg.Retrieval.IndexDir); err != nil {
			return nil, fmt.Errorf("loading local index from %s: %w\nRun `incidentrag index` first to build it", cfg.Retrieval.IndexDir, err)
		}
		return index, nil
	default:
		return nil, fmt.Errorf("unknown retrieval mode %q", cfg.Retrieval.Mode)
	}
}

// createAnalyzer wires the full analysis pipeline from config.
func createAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*analyzer.Analyzer, *bedrock.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := bedrock.New(awsCfg, cfg.ModelID, logger)

	retriever, err := createRetriever(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var attachments analyzer.AttachmentLister
	if cfg.S3Bucket != "" {
		attachments = storage.NewAttachmentStore(awsCfg, cfg.S3Bucket, cfg.AttachmentsPrefix, logger)
	}

	return analyzer.New(client, retriever, attachments, logger), client, nil
}

// expandFileArgs expands glob patterns in file arguments. Plain paths
// pass through untouched so a missing file still surfaces a per-file
// error later instead of silently matching nothing.
func expandFileArgs(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if !containsGlobMeta(pattern) {
			paths = append(paths, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func containsGlobMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
