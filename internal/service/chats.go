package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/repository"
)

// DefaultPerPage is the message page size when the caller does not pick one.
const DefaultPerPage = 10

// GetChats lists the caller's chats, newest first.
func (s *ChatService) GetChats(ctx context.Context, securePermissions string) ([]domain.Chat, error) {
	userID, tenantID, err := s.auth.GetUserDetails(securePermissions)
	if err != nil {
		return nil, err
	}
	return s.store.GetChats(ctx, userID, tenantID)
}

// GetChat returns one chat the caller owns.
func (s *ChatService) GetChat(ctx context.Context, securePermissions, chatID string) (*domain.Chat, error) {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return nil, err
	}
	return s.store.GetChat(ctx, chatID)
}

// UpdateChat applies the mutable chat fields.
func (s *ChatService) UpdateChat(ctx context.Context, securePermissions, chatID string, update domain.ChatUpdate) error {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return err
	}
	return s.store.RenameChat(ctx, chatID, update.Title)
}

// DeleteChat removes a chat from the caller's view. Messages stay on record.
func (s *ChatService) DeleteChat(ctx context.Context, securePermissions, chatID string) error {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return err
	}
	return s.store.SoftDeleteChat(ctx, chatID)
}

// AddFeedback records the caller's rating of an AI message.
func (s *ChatService) AddFeedback(ctx context.Context, securePermissions, chatID, messageID string, feedback domain.MessageFeedback) error {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return err
	}
	return s.store.UpsertFeedback(ctx, messageID, feedback)
}

// GetMessages returns one page of a chat's messages in chronological order.
// page 0 means the latest page, which is what a client opening a chat wants.
func (s *ChatService) GetMessages(ctx context.Context, securePermissions, chatID string, page, perPage int) (*domain.PaginatedMessages, error) {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return nil, err
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	total, err := s.store.GetTotalMessageCount(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}
	if page <= 0 {
		page = lastPage
	}

	offset := (page - 1) * perPage
	messages, err := s.store.GetChatMessages(ctx, chatID, perPage, offset, repository.OrderAsc)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	responses := make([]domain.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, renderMessage(msg))
	}

	return &domain.PaginatedMessages{
		Messages: responses,
		Metadata: domain.PageMeta{Page: page, TotalMessageCount: total},
	}, nil
}

// GetMessagesByID returns specific messages from a chat the caller owns,
// in the same page envelope as GetMessages.
func (s *ChatService) GetMessagesByID(ctx context.Context, securePermissions, chatID string, messageIDs []string) (*domain.PaginatedMessages, error) {
	if err := s.auth.ValidateChatID(ctx, securePermissions, chatID); err != nil {
		return nil, err
	}
	messages, err := s.store.GetChatMessagesByID(ctx, chatID, messageIDs)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, renderMessage(msg))
	}
	return &domain.PaginatedMessages{
		Messages: responses,
		Metadata: domain.PageMeta{Page: 1, TotalMessageCount: len(responses)},
	}, nil
}

// renderMessage builds the API shape of a stored message. AI answers are
// rendered to HTML paragraphs; user text passes through untouched.
func renderMessage(msg domain.ChatMessage) domain.ChatMessageResponse {
	text := msg.Text
	if msg.Author.Role == domain.AuthorRoleAI {
		text = renderHTML(text)
	}
	return domain.ChatMessageResponse{
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		CreatedAt: msg.CreatedAt,
		Author:    msg.Author,
		Text:      text,
		Layouts:   []domain.Layout{},
	}
}

// renderHTML wraps each paragraph of an answer in <p> tags.
func renderHTML(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>")
	}
	return b.String()
}
