package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"persona-chat/internal/config"
)

// NewClient construye el proveedor configurado. El closer libera recursos del SDK (puede ser no-op).
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Client, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTimeout, logger), noop, nil
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.LLMAPIKey, logger)
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil
	case config.ProviderBedrock:
		client, err := NewBedrockClient(ctx, cfg.AWSRegion, logger)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.LLMProvider)
	}
}
