package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"persona-chat/internal/domain"
)

// OpenAIClient implementa Client contra la API de chat completions de OpenAI
// (o cualquier endpoint compatible via baseURL).
type OpenAIClient struct {
	client openai.Client
	logger *zap.Logger
}

// NewOpenAIClient construye el cliente sin reintentos: un fallo se reporta una sola vez.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage, params Params) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(params.Model),
		Messages:    msgs,
		Temperature: openai.Float(params.Temperature),
		MaxTokens:   openai.Int(int64(params.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("openai completion",
		zap.String("model", resp.Model),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
