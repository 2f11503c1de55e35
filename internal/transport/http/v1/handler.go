// Package v1 provides the versioned HTTP handlers for the chat service.
package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/repository"
	"github.com/xiaot623/genai-chat/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	chat    *service.ChatService
	reports *service.ReportsService
}

// NewHandler creates a new handler.
func NewHandler(chat *service.ChatService, reports *service.ReportsService) *Handler {
	return &Handler{
		chat:    chat,
		reports: reports,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat turn (SSE stream)
	e.POST("/v1/chat", h.Chat)

	// Chat management
	e.GET("/v1/chats", h.GetChats)
	e.GET("/v1/chats/:chat_id", h.GetChat)
	e.PATCH("/v1/chats/:chat_id", h.UpdateChat)
	e.DELETE("/v1/chats/:chat_id", h.DeleteChat)
	e.GET("/v1/chats/:chat_id/messages", h.GetMessages)
	e.POST("/v1/chats/:chat_id/messages/:message_id/feedback", h.AddFeedback)

	// Reports tool
	e.POST("/v1/reports/metric-anomaly", h.MetricAnomaly)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": domain.AppVersion,
	})
}

// securePermissions extracts the caller's permission token.
func securePermissions(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// writeError maps service errors onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	var sensitive *domain.SensitiveDataError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, domain.ErrEmptyQuestion):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	case errors.As(err, &sensitive):
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":           "sensitive data detected",
			"rejected_reason": sensitive.Reasons,
		})
	case errors.Is(err, repository.ErrChatNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "chat not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
