package repository_test

import (
	"context"
	"testing"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/repository"
	"github.com/xiaot623/genai-chat/tests/helpers"
)

func TestCreateAndGetChat(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	if chatID == "" {
		t.Fatal("expected non-empty chat id")
	}

	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		t.Fatalf("failed to get chat: %v", err)
	}
	if chat.ChatID != chatID {
		t.Errorf("expected chat id %s, got %s", chatID, chat.ChatID)
	}
	if chat.Title != "" {
		t.Errorf("expected empty title, got %q", chat.Title)
	}

	userID, tenantID, err := s.ChatOwner(ctx, chatID)
	if err != nil {
		t.Fatalf("failed to get chat owner: %v", err)
	}
	if userID != "user-1" || tenantID != "tenant-1" {
		t.Errorf("unexpected owner %s/%s", userID, tenantID)
	}
}

func TestGetChatNotFound(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	_, err := s.GetChat(context.Background(), "chat_missing")
	if err != repository.ErrChatNotFound {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestGetChatsScopedToOwner(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	mine, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	if _, err := s.CreateChat(ctx, "user-2", "tenant-1"); err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	if _, err := s.CreateChat(ctx, "user-1", "tenant-2"); err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}

	chats, err := s.GetChats(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to list chats: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	if chats[0].ChatID != mine {
		t.Errorf("expected chat %s, got %s", mine, chats[0].ChatID)
	}
}

func TestRenameChat(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	if err := s.RenameChat(ctx, chatID, "PowerStore questions"); err != nil {
		t.Fatalf("failed to rename chat: %v", err)
	}

	chat, err := s.GetChat(ctx, chatID)
	if err != nil {
		t.Fatalf("failed to get chat: %v", err)
	}
	if chat.Title != "PowerStore questions" {
		t.Errorf("expected renamed title, got %q", chat.Title)
	}
}

func TestSoftDeleteChat(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	if err := s.SoftDeleteChat(ctx, chatID); err != nil {
		t.Fatalf("failed to delete chat: %v", err)
	}

	if _, err := s.GetChat(ctx, chatID); err != repository.ErrChatNotFound {
		t.Fatalf("expected ErrChatNotFound after delete, got %v", err)
	}
	if _, _, err := s.ChatOwner(ctx, chatID); err != repository.ErrChatNotFound {
		t.Fatalf("expected ErrChatNotFound for owner after delete, got %v", err)
	}

	chats, err := s.GetChats(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to list chats: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("expected no chats after delete, got %d", len(chats))
	}
}

func TestAddAndGetMessages(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}

	questionID, err := s.AddMessage(ctx, chatID, domain.AuthorRoleUser, "What is PowerStore?", domain.MessageMeta{})
	if err != nil {
		t.Fatalf("failed to add question: %v", err)
	}
	meta := domain.MessageMeta{
		Citations:         []domain.Citation{{Title: "PowerStore Guide", Link: "https://example.com", Score: 0.9}},
		Llm:               &domain.LlmMeta{Model: domain.LlmLlama3_8B},
		App:               &domain.AppMeta{Version: domain.AppVersion},
		QuestionMessageID: questionID,
	}
	answerID, err := s.AddMessage(ctx, chatID, domain.AuthorRoleAI, "PowerStore is a storage appliance.", meta)
	if err != nil {
		t.Fatalf("failed to add answer: %v", err)
	}

	messages, err := s.GetChatMessages(ctx, chatID, 10, 0, repository.OrderAsc)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].MessageID != questionID || messages[0].Author.Role != domain.AuthorRoleUser {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].MessageID != answerID || messages[1].Author.Role != domain.AuthorRoleAI {
		t.Errorf("unexpected second message: %+v", messages[1])
	}
	if messages[1].Metadata.QuestionMessageID != questionID {
		t.Errorf("expected question linkage %s, got %s", questionID, messages[1].Metadata.QuestionMessageID)
	}
	if len(messages[1].Metadata.Citations) != 1 || messages[1].Metadata.Citations[0].Title != "PowerStore Guide" {
		t.Errorf("unexpected citations: %+v", messages[1].Metadata.Citations)
	}
	if messages[1].Metadata.Llm == nil || messages[1].Metadata.Llm.Model != domain.LlmLlama3_8B {
		t.Errorf("unexpected llm metadata: %+v", messages[1].Metadata.Llm)
	}
}

func TestGetChatMessagesWindow(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	for i := 0; i < 5; i++ {
		text := string(rune('a' + i))
		if _, err := s.AddMessage(ctx, chatID, domain.AuthorRoleUser, text, domain.MessageMeta{}); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}
	}

	desc, err := s.GetChatMessages(ctx, chatID, 2, 0, repository.OrderDesc)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(desc) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(desc))
	}
	if desc[0].Text != "e" || desc[1].Text != "d" {
		t.Errorf("expected newest first, got %q then %q", desc[0].Text, desc[1].Text)
	}

	asc, err := s.GetChatMessages(ctx, chatID, 2, 2, repository.OrderAsc)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if asc[0].Text != "c" || asc[1].Text != "d" {
		t.Errorf("expected offset window c,d, got %q then %q", asc[0].Text, asc[1].Text)
	}

	count, err := s.GetTotalMessageCount(ctx, chatID)
	if err != nil {
		t.Fatalf("failed to count messages: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 messages, got %d", count)
	}
}

func TestGetChatMessagesByID(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	first, _ := s.AddMessage(ctx, chatID, domain.AuthorRoleUser, "one", domain.MessageMeta{})
	if _, err := s.AddMessage(ctx, chatID, domain.AuthorRoleAI, "two", domain.MessageMeta{}); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
	third, _ := s.AddMessage(ctx, chatID, domain.AuthorRoleUser, "three", domain.MessageMeta{})

	messages, err := s.GetChatMessagesByID(ctx, chatID, []string{third, first})
	if err != nil {
		t.Fatalf("failed to get messages by id: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "one" || messages[1].Text != "three" {
		t.Errorf("expected chronological order, got %q then %q", messages[0].Text, messages[1].Text)
	}

	none, err := s.GetChatMessagesByID(ctx, chatID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no messages for empty id list, got %d", len(none))
	}
}

func TestAddRejectedMessage(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)

	err := s.AddRejectedMessage(context.Background(), domain.RejectedMessage{
		Message:  "My SSN is [SSN]",
		UserID:   "user-1",
		TenantID: "tenant-1",
		Reasons:  []domain.SensitiveDataType{domain.SensitiveDataSSN},
	})
	if err != nil {
		t.Fatalf("failed to record rejected message: %v", err)
	}
}

func TestUpsertFeedback(t *testing.T) {
	s := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	chatID, err := s.CreateChat(ctx, "user-1", "tenant-1")
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
	messageID, err := s.AddMessage(ctx, chatID, domain.AuthorRoleAI, "answer", domain.MessageMeta{})
	if err != nil {
		t.Fatalf("failed to add message: %v", err)
	}

	if err := s.UpsertFeedback(ctx, messageID, domain.MessageFeedback{Rating: domain.FeedbackThumbsUp}); err != nil {
		t.Fatalf("failed to add feedback: %v", err)
	}
	// Same message again replaces, not duplicates.
	err = s.UpsertFeedback(ctx, messageID, domain.MessageFeedback{
		Rating:     domain.FeedbackThumbsDown,
		Categories: []domain.FeedbackCategory{domain.FeedbackCategoryInaccurate},
		Text:       "wrong product",
	})
	if err != nil {
		t.Fatalf("failed to replace feedback: %v", err)
	}
}
