package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-chat/internal/domain"
	"persona-chat/internal/service"
)

const upstreamErrorMessage = "Failed to fetch AI response"

// Relay es lo que el handler necesita del servicio de chat.
type Relay interface {
	Handle(ctx context.Context, req domain.ChatRequest) (string, error)
}

// ChatHandler expone el relay de chat por HTTP.
type ChatHandler struct {
	logger *zap.Logger
	relay  Relay
}

// NewChatHandler crea una instancia de ChatHandler.
func NewChatHandler(logger *zap.Logger, relay Relay) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		relay:  relay,
	}
}

// PostChat maneja POST /api/chat (y el alias /api/chatbot).
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		Message   *string `json:"message" binding:"required"`
		SessionID string  `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err), zap.String("request_id", requestID(c)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.relay.Handle(c.Request.Context(), domain.ChatRequest{
		Message:   *req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		h.logger.Error("chat relay failed", zap.Error(err), zap.String("request_id", requestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamErrorMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// HealthHandler responde el estado del proceso y la version del documento cargado.
type HealthHandler struct {
	knowledgeVersion string
}

func NewHealthHandler(knowledgeVersion string) *HealthHandler {
	return &HealthHandler{knowledgeVersion: knowledgeVersion}
}

// Health maneja GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"knowledge_version": h.knowledgeVersion,
	})
}
