package config

// Defaults mirror the service's provisioning: a Claude Sonnet model in
// eu-west-1 and the incidents-files attachment prefix.
const (
	DefaultRegion            = "eu-west-1"
	DefaultModelID           = "eu.anthropic.claude-sonnet-4-5-20250929-v1:0"
	DefaultMaxTokens         = 4096
	DefaultTemperature       = 0.7
	DefaultAttachmentsPrefix = "incidents-files"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Region:            DefaultRegion,
		ModelID:           DefaultModelID,
		MaxTokens:         DefaultMaxTokens,
		Temperature:       DefaultTemperature,
		AttachmentsPrefix: DefaultAttachmentsPrefix,
		Retrieval: RetrievalConfig{
			Mode:              RetrievalKnowledgeBase,
			IndexDir:          ".incidentrag/index",
			EmbeddingProvider: EmbeddingOpenAI,
			EmbeddingModel:    "text-embedding-3-small",
		},
		HistoryPath: ".incidentrag/history.db",
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
