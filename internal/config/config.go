package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"

	KnowledgeEmbedded = "embedded"
	KnowledgeFile     = "file"
	KnowledgePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

var defaultModels = map[string]string{
	ProviderOpenAI:  "gpt-3.5-turbo",
	ProviderGemini:  "gemini-1.5-flash",
	ProviderBedrock: "anthropic.claude-3-haiku-20240307-v1:0",
}

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	LLMProvider     string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey       string        `env:"LLM_API_KEY"`
	LLMBaseURL      string        `env:"LLM_BASE_URL"`
	LLMModel        string        `env:"LLM_MODEL"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	AWSRegion       string        `env:"AWS_REGION" envDefault:"us-east-1"`
	KnowledgeSource string        `env:"KNOWLEDGE_SOURCE" envDefault:"embedded"`
	KnowledgePath   string        `env:"KNOWLEDGE_PATH"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	FunFactRotation bool          `env:"FUN_FACT_ROTATION" envDefault:"false"`
	FunFactTTL      time.Duration `env:"FUN_FACT_TTL" envDefault:"2h"`
	PersonaName     string        `env:"PERSONA_NAME" envDefault:"Vignesh Kumar Karthikeyan"`
	PersonaEmail    string        `env:"PERSONA_EMAIL" envDefault:"vika2375@colorado.edu"`
	PersonaLinkedIn string        `env:"PERSONA_LINKEDIN" envDefault:"www.linkedin.com/in/k-vignesh-kumar"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno y la valida.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.KnowledgeSource = strings.ToLower(strings.TrimSpace(cfg.KnowledgeSource))
	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa las combinaciones que dependen del proveedor y de la fuente del documento.
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.LLMProvider]; !ok {
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider)
	}
	if c.LLMProvider != ProviderBedrock && strings.TrimSpace(c.LLMAPIKey) == "" {
		return fmt.Errorf("%w: LLM_API_KEY is required for provider %s", ErrInvalidConfig, c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("%w: LLM_TIMEOUT must be positive", ErrInvalidConfig)
	}

	switch c.KnowledgeSource {
	case KnowledgeEmbedded:
	case KnowledgeFile:
		if strings.TrimSpace(c.KnowledgePath) == "" {
			return fmt.Errorf("%w: KNOWLEDGE_PATH is required when KNOWLEDGE_SOURCE=file", ErrInvalidConfig)
		}
	case KnowledgePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("%w: DATABASE_URL is required when KNOWLEDGE_SOURCE=postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown KNOWLEDGE_SOURCE %q", ErrInvalidConfig, c.KnowledgeSource)
	}
	return nil
}

// Model devuelve el modelo configurado o el default del proveedor.
func (c *Config) Model() string {
	if m := strings.TrimSpace(c.LLMModel); m != "" {
		return m
	}
	return defaultModels[c.LLMProvider]
}
