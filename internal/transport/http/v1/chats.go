package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// GetChats lists the caller's chats.
// GET /v1/chats
func (h *Handler) GetChats(c echo.Context) error {
	chats, err := h.chat.GetChats(c.Request().Context(), securePermissions(c))
	if err != nil {
		return writeError(c, err)
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	return c.JSON(http.StatusOK, map[string]any{"chats": chats})
}

// GetChat returns one chat.
// GET /v1/chats/:chat_id
func (h *Handler) GetChat(c echo.Context) error {
	chat, err := h.chat.GetChat(c.Request().Context(), securePermissions(c), c.Param("chat_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

// UpdateChat applies the mutable chat fields.
// PATCH /v1/chats/:chat_id
func (h *Handler) UpdateChat(c echo.Context) error {
	var update domain.ChatUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if update.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}

	if err := h.chat.UpdateChat(c.Request().Context(), securePermissions(c), c.Param("chat_id"), update); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteChat removes a chat from the caller's view.
// DELETE /v1/chats/:chat_id
func (h *Handler) DeleteChat(c echo.Context) error {
	if err := h.chat.DeleteChat(c.Request().Context(), securePermissions(c), c.Param("chat_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMessages returns a page of a chat's messages, or specific messages when
// message_ids is given.
// GET /v1/chats/:chat_id/messages?page=&per_page=&message_ids=
func (h *Handler) GetMessages(c echo.Context) error {
	ctx := c.Request().Context()
	chatID := c.Param("chat_id")

	if ids := c.QueryParam("message_ids"); ids != "" {
		result, err := h.chat.GetMessagesByID(ctx, securePermissions(c), chatID, strings.Split(ids, ","))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}

	page := 0
	if p := c.QueryParam("page"); p != "" {
		val, err := strconv.Atoi(p)
		if err != nil || val < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "page must be a positive integer"})
		}
		page = val
	}
	perPage := 0
	if pp := c.QueryParam("per_page"); pp != "" {
		val, err := strconv.Atoi(pp)
		if err != nil || val < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "per_page must be a positive integer"})
		}
		perPage = val
	}

	result, err := h.chat.GetMessages(ctx, securePermissions(c), chatID, page, perPage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AddFeedback records feedback on an AI message.
// POST /v1/chats/:chat_id/messages/:message_id/feedback
func (h *Handler) AddFeedback(c echo.Context) error {
	var feedback domain.MessageFeedback
	if err := c.Bind(&feedback); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if feedback.Rating != domain.FeedbackThumbsUp && feedback.Rating != domain.FeedbackThumbsDown {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "rating must be THUMBS_UP or THUMBS_DOWN"})
	}

	err := h.chat.AddFeedback(c.Request().Context(), securePermissions(c), c.Param("chat_id"), c.Param("message_id"), feedback)
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
