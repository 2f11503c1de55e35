// Package repository persists chats, messages and rejected input.
package repository

import (
	"context"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// Order for message listing.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ChatStore is the persistence gateway for the chat service.
type ChatStore interface {
	CreateChat(ctx context.Context, userID, tenantID string) (string, error)
	GetChats(ctx context.Context, userID, tenantID string) ([]domain.Chat, error)
	GetChat(ctx context.Context, chatID string) (*domain.Chat, error)
	ChatOwner(ctx context.Context, chatID string) (userID, tenantID string, err error)
	RenameChat(ctx context.Context, chatID, title string) error
	SoftDeleteChat(ctx context.Context, chatID string) error

	AddMessage(ctx context.Context, chatID string, role domain.AuthorRole, text string, meta domain.MessageMeta) (string, error)
	GetChatMessages(ctx context.Context, chatID string, limit, offset int, order string) ([]domain.ChatMessage, error)
	GetChatMessagesByID(ctx context.Context, chatID string, messageIDs []string) ([]domain.ChatMessage, error)
	GetTotalMessageCount(ctx context.Context, chatID string) (int, error)

	AddRejectedMessage(ctx context.Context, rejected domain.RejectedMessage) error
	UpsertFeedback(ctx context.Context, messageID string, feedback domain.MessageFeedback) error

	Close() error
}
