package config

// RetrievalMode selects where similar incidents are retrieved from.
type RetrievalMode string

const (
	// RetrievalKnowledgeBase uses the managed Bedrock Knowledge Base.
	RetrievalKnowledgeBase RetrievalMode = "knowledgebase"
	// RetrievalLocal uses the on-disk chromem index, for development
	// without provisioned AWS retrieval infrastructure.
	RetrievalLocal RetrievalMode = "local"
)

// EmbeddingProvider identifies the embedder used by the local index.
type EmbeddingProvider string

const (
	EmbeddingOpenAI EmbeddingProvider = "openai"
	EmbeddingOllama EmbeddingProvider = "ollama"
)

// Config is the top-level configuration, corresponding to
// .incidentrag.yml.
type Config struct {
	Region            string          `yaml:"region" koanf:"region"`
	Profile           string          `yaml:"profile" koanf:"profile"`
	ModelID           string          `yaml:"model_id" koanf:"model_id"`
	MaxTokens         int             `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature       float64         `yaml:"temperature" koanf:"temperature"`
	KnowledgeBaseID   string          `yaml:"knowledge_base_id" koanf:"knowledge_base_id"`
	S3Bucket          string          `yaml:"s3_bucket" koanf:"s3_bucket"`
	AttachmentsPrefix string          `yaml:"attachments_prefix" koanf:"attachments_prefix"`
	Retrieval         RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	HistoryPath       string          `yaml:"history_path" koanf:"history_path"`
	Server            ServerConfig    `yaml:"server" koanf:"server"`
}

// RetrievalConfig holds retrieval-backend settings.
type RetrievalConfig struct {
	Mode              RetrievalMode     `yaml:"mode" koanf:"mode"`
	IndexDir          string            `yaml:"index_dir" koanf:"index_dir"`
	EmbeddingProvider EmbeddingProvider `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string            `yaml:"embedding_model" koanf:"embedding_model"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
