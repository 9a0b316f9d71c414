package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.KnowledgeBaseID = "KB12345678"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Region != DefaultRegion {
		t.Errorf("Region = %q, want %q", cfg.Region, DefaultRegion)
	}
	if cfg.ModelID != DefaultModelID {
		t.Errorf("ModelID = %q, want %q", cfg.ModelID, DefaultModelID)
	}
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, DefaultMaxTokens)
	}
	if cfg.AttachmentsPrefix != DefaultAttachmentsPrefix {
		t.Errorf("AttachmentsPrefix = %q, want %q", cfg.AttachmentsPrefix, DefaultAttachmentsPrefix)
	}
	if cfg.Retrieval.Mode != RetrievalKnowledgeBase {
		t.Errorf("Retrieval.Mode = %q, want %q", cfg.Retrieval.Mode, RetrievalKnowledgeBase)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".incidentrag.yml")

	cfg := validConfig()
	cfg.Region = "us-east-1"
	cfg.S3Bucket = "incident-attachments"
	cfg.Retrieval.Mode = RetrievalLocal
	cfg.Retrieval.EmbeddingProvider = EmbeddingOllama
	cfg.Retrieval.EmbeddingModel = "nomic-embed-text"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", loaded.Region)
	}
	if loaded.S3Bucket != "incident-attachments" {
		t.Errorf("S3Bucket = %q, want incident-attachments", loaded.S3Bucket)
	}
	if loaded.Retrieval.Mode != RetrievalLocal {
		t.Errorf("Retrieval.Mode = %q, want local", loaded.Retrieval.Mode)
	}
	if loaded.Retrieval.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("Retrieval.EmbeddingModel = %q, want nomic-embed-text", loaded.Retrieval.EmbeddingModel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModelID != DefaultModelID {
		t.Errorf("ModelID = %q, want default", cfg.ModelID)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("INCIDENTRAG_REGION", "ap-southeast-2")
	os.Setenv("INCIDENTRAG_RETRIEVAL__MODE", "local")
	defer os.Unsetenv("INCIDENTRAG_REGION")
	defer os.Unsetenv("INCIDENTRAG_RETRIEVAL__MODE")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Region != "ap-southeast-2" {
		t.Errorf("Region = %q, want ap-southeast-2", cfg.Region)
	}
	if cfg.Retrieval.Mode != RetrievalLocal {
		t.Errorf("Retrieval.Mode = %q, want local", cfg.Retrieval.Mode)
	}
}

func TestValidateValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidateMissingRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Region = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty region")
	}
}

func TestValidateMissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.ModelID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty model_id")
	}
}

func TestValidateTemperatureRange(t *testing.T) {
	cfg := validConfig()
	cfg.Temperature = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for temperature > 1.0")
	}
}

func TestValidateKnowledgeBaseRequired(t *testing.T) {
	cfg := DefaultConfig() // knowledgebase mode, no KB id
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing knowledge_base_id")
	}
}

func TestValidateLocalModeNeedsProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.Mode = RetrievalLocal
	cfg.Retrieval.EmbeddingProvider = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid embedding provider")
	}
}

func TestValidateInvalidMode(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.Mode = "remote"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid retrieval mode")
	}
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid port")
	}
}
