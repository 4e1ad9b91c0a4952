package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"

	"persona-chat/internal/domain"
)

type bedrockConverser interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient implementa Client con la Converse API de Amazon Bedrock.
type BedrockClient struct {
	runtime bedrockConverser
	logger  *zap.Logger
}

// NewBedrockClient carga credenciales de la cadena por defecto de AWS, con un solo intento por llamada.
func NewBedrockClient(ctx context.Context, region string, logger *zap.Logger) (*BedrockClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &BedrockClient{
		runtime: bedrockruntime.NewFromConfig(cfg),
		logger:  logger,
	}, nil
}

func (c *BedrockClient) Complete(ctx context.Context, messages []domain.ChatMessage, params Params) (string, error) {
	system, turns := splitSystem(messages)

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(params.Model),
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(float32(params.Temperature)),
			MaxTokens:   aws.Int32(int32(params.MaxTokens)),
		},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}
	for _, t := range turns {
		role := types.ConversationRoleUser
		if t.Role == domain.RoleAssistant {
			role = types.ConversationRoleAssistant
		}
		input.Messages = append(input.Messages, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: t.Content}},
		})
	}

	out, err := c.runtime.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", ErrEmptyCompletion
	}
	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
