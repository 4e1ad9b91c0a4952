package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"persona-chat/internal/domain"
)

// GeminiClient implementa Client usando el SDK de Gemini.
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, logger: logger}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Complete(ctx context.Context, messages []domain.ChatMessage, params Params) (string, error) {
	system, turns := splitSystem(messages)
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini: no user turn")
	}

	model := c.client.GenerativeModel(params.Model)
	model.SetTemperature(float32(params.Temperature))
	model.SetMaxOutputTokens(int32(params.MaxTokens))
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	cs := model.StartChat()
	for _, t := range turns[:len(turns)-1] {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(t.Role),
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return geminiText(resp)
}

func geminiRole(role string) string {
	if role == domain.RoleAssistant {
		return "model"
	}
	return "user"
}

// geminiText concatena las partes de texto del primer candidato.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
