// Package config loads the .incidentrag.yml configuration with
// INCIDENTRAG_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INCIDENTRAG_*). Nested keys use a
// double underscore: INCIDENTRAG_RETRIEVAL__MODE.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("INCIDENTRAG_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "INCIDENTRAG_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validRetrievalModes = map[RetrievalMode]bool{
	RetrievalKnowledgeBase: true,
	RetrievalLocal:         true,
}

var validEmbeddingProviders = map[EmbeddingProvider]bool{
	EmbeddingOpenAI: true,
	EmbeddingOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}

	if !validRetrievalModes[c.Retrieval.Mode] {
		return fmt.Errorf("invalid retrieval mode %q: must be knowledgebase or local", c.Retrieval.Mode)
	}
	if c.Retrieval.Mode == RetrievalKnowledgeBase && c.KnowledgeBaseID == "" {
		return fmt.Errorf("knowledge_base_id is required when retrieval mode is knowledgebase")
	}
	if c.Retrieval.Mode == RetrievalLocal {
		if !validEmbeddingProviders[c.Retrieval.EmbeddingProvider] {
			return fmt.Errorf("invalid embedding_provider %q: must be openai or ollama", c.Retrieval.EmbeddingProvider)
		}
		if c.Retrieval.IndexDir == "" {
			return fmt.Errorf("retrieval.index_dir is required when retrieval mode is local")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port")
	}

	return nil
}
