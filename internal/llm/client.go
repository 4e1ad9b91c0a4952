package llm

import (
	"context"
	"errors"
	"strings"

	"persona-chat/internal/domain"
)

var (
	ErrEmptyCompletion = errors.New("llm empty response")
	ErrUnknownProvider = errors.New("llm unknown provider")
)

// Client define la interfaz para pedir una completion a un proveedor de chat.
type Client interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, params Params) (string, error)
}

// Params son los parametros de muestreo de una llamada.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// splitSystem separa los mensajes de sistema (concatenados) del resto de turnos,
// para proveedores que reciben la instruccion de sistema aparte.
func splitSystem(messages []domain.ChatMessage) (string, []domain.ChatMessage) {
	var system []string
	turns := make([]domain.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}
