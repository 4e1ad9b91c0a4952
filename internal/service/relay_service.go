package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"persona-chat/internal/domain"
	"persona-chat/internal/llm"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
	DefaultTimeout     = 30 * time.Second
)

var (
	ErrEmptyMessage       = errors.New("message is required")
	ErrUpstream           = errors.New("upstream completion failed")
	ErrRelayNotConfigured = errors.New("relay not configured")
)

// RelayService arma [system, user] y reenvia una sola vez al proveedor de completions.
type RelayService struct {
	logger       *zap.Logger
	client       llm.Client
	rotator      *FunFactRotator
	params       llm.Params
	timeout      time.Duration
	systemPrompt string
	doc          domain.KnowledgeDocument
}

// NewRelayService precalcula el mensaje de sistema; el documento no cambia durante el proceso.
func NewRelayService(
	logger *zap.Logger,
	client llm.Client,
	prompt PersonaPrompt,
	doc domain.KnowledgeDocument,
	model string,
	timeout time.Duration,
) *RelayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RelayService{
		logger:  logger,
		client:  client,
		timeout: timeout,
		params: llm.Params{
			Model:       model,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		systemPrompt: prompt.SystemMessage(doc.Text),
		doc:          doc,
	}
}

// WithFunFactRotator habilita la rotacion de fun facts por sesion.
func (s *RelayService) WithFunFactRotator(r *FunFactRotator) *RelayService {
	s.rotator = r
	return s
}

// SystemPrompt devuelve el mensaje de sistema base (sin pista de rotacion).
func (s *RelayService) SystemPrompt() string {
	return s.systemPrompt
}

// KnowledgeVersion identifica el documento cargado.
func (s *RelayService) KnowledgeVersion() string {
	return s.doc.Version
}

// Handle procesa un mensaje del visitante y devuelve la respuesta del modelo tal cual.
func (s *RelayService) Handle(ctx context.Context, req domain.ChatRequest) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrRelayNotConfigured
	}
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	system := s.systemPrompt
	if hint := s.rotator.Hint(ctx, req.SessionID); hint != "" {
		system += "\n\n" + hint
	}

	messages := []domain.ChatMessage{
		domain.SystemMessage(system),
		domain.UserMessage(req.Message),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.client.Complete(callCtx, messages, s.params)
	if err != nil {
		s.logger.Error("completion failed",
			zap.Error(err),
			zap.String("model", s.params.Model),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.rotator.Observe(ctx, req.SessionID, reply)
	return reply, nil
}
