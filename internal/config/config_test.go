package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("expected openai provider, got %q", cfg.LLMProvider)
	}
	if cfg.Model() != "gpt-3.5-turbo" {
		t.Fatalf("expected gpt-3.5-turbo, got %q", cfg.Model())
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.KnowledgeSource != KnowledgeEmbedded {
		t.Fatalf("expected embedded knowledge, got %q", cfg.KnowledgeSource)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors, got %+v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", " Gemini ")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.dev,https://b.dev")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLMProvider != ProviderGemini {
		t.Fatalf("expected normalized provider, got %q", cfg.LLMProvider)
	}
	if cfg.Model() != "gemini-1.5-flash" {
		t.Fatalf("expected gemini default model, got %q", cfg.Model())
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.LLMTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %+v", cfg.CORSOrigins)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{
			LLMProvider:     ProviderOpenAI,
			LLMAPIKey:       "key",
			LLMTimeout:      time.Second,
			KnowledgeSource: KnowledgeEmbedded,
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.LLMProvider = "llama" }, true},
		{"missing api key", func(c *Config) { c.LLMAPIKey = " " }, true},
		{"bedrock without key", func(c *Config) { c.LLMProvider = ProviderBedrock; c.LLMAPIKey = "" }, false},
		{"zero timeout", func(c *Config) { c.LLMTimeout = 0 }, true},
		{"file without path", func(c *Config) { c.KnowledgeSource = KnowledgeFile }, true},
		{"file with path", func(c *Config) { c.KnowledgeSource = KnowledgeFile; c.KnowledgePath = "bio.md" }, false},
		{"postgres without url", func(c *Config) { c.KnowledgeSource = KnowledgePostgres }, true},
		{"unknown source", func(c *Config) { c.KnowledgeSource = "s3" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfigModel_ExplicitOverride(t *testing.T) {
	cfg := Config{LLMProvider: ProviderOpenAI, LLMModel: " gpt-4o-mini "}
	if cfg.Model() != "gpt-4o-mini" {
		t.Fatalf("expected explicit model, got %q", cfg.Model())
	}
}
