package domain

// Roles admitidos por los proveedores de chat completions.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage es el mensaje agnostico de proveedor que se envia al LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// ChatRequest es la unica entrada externa del relay. SessionID es opcional y solo
// lo usa la rotacion de fun facts.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}
