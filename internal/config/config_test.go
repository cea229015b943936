package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("RAG_AUGMENT_PER_CHUNK", "")
	t.Setenv("RAG_MAX_CONTEXT_CHUNKS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RAGTopK != 6 {
		t.Fatalf("expected default top-k 6, got %d", cfg.RAGTopK)
	}
	if cfg.RAGAugmentPerChunk != 3 {
		t.Fatalf("expected default augment per chunk 3, got %d", cfg.RAGAugmentPerChunk)
	}
	if cfg.RAGMaxContextChunks != 0 {
		t.Fatalf("expected unset context cap, got %d", cfg.RAGMaxContextChunks)
	}
	if cfg.NATSSubject != "faq.documents.ingest" {
		t.Fatalf("subject = %q", cfg.NATSSubject)
	}
}

func TestLoadParsesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RAG_TOP_K", "9")
	t.Setenv("RAG_AUGMENT_PER_CHUNK", "5")
	t.Setenv("OPENAI_GEN_MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RAGTopK != 9 {
		t.Fatalf("expected top-k 9, got %d", cfg.RAGTopK)
	}
	if cfg.RAGAugmentPerChunk != 5 {
		t.Fatalf("expected augment per chunk 5, got %d", cfg.RAGAugmentPerChunk)
	}
	if cfg.OpenAIGenModel != "gpt-4o" {
		t.Fatalf("gen model = %q", cfg.OpenAIGenModel)
	}
}

func TestLoadYAMLFileDefaultsYieldToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("rag_top_k: 4\nqdrant_collection: kb-staging\nlog_level: debug\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RAG_TOP_K", "7")
	t.Setenv("QDRANT_COLLECTION", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RAGTopK != 7 {
		t.Fatalf("env must win over file, got top-k %d", cfg.RAGTopK)
	}
	if cfg.QdrantCollection != "kb-staging" {
		t.Fatalf("file default not applied, got %q", cfg.QdrantCollection)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsUnreadableConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
