package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// Chat runs one chat turn and streams the answer as server-sent events.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	ctx := c.Request().Context()
	stream, err := h.chat.Chat(ctx, req, securePermissions(c))
	if err != nil {
		return writeError(c, err)
	}
	defer stream.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	for {
		chunk, ok := stream.Recv()
		if !ok {
			break
		}
		data, err := json.Marshal(chunk.Data)
		if err != nil {
			c.Logger().Errorf("failed to marshal chunk: %v", err)
			break
		}
		if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", chunk.Event, data); err != nil {
			// Client went away; Close stops the producer.
			break
		}
		resp.Flush()
	}

	if err := stream.Err(); err != nil {
		c.Logger().Errorf("chat stream failed: %v", err)
	}
	return nil
}
