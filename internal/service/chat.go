package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/repository"
	"github.com/xiaot623/genai-chat/internal/safety"
	"github.com/xiaot623/genai-chat/internal/workflow"
)

// Fixed answers for turns that never reach the model. Both are delivered as
// a normal chunk sequence so clients handle them like any other answer.
const (
	GuardRailsAnswer = "Submitted question contains potentially sensitive or harmful information. " +
		"Please rephrase and resubmit the question without this information."
	MissingProductAnswer = "To provide the best answer to your question, please provide the product name " +
		`of your system. An example of a product name is "PowerStore."`
)

// PolicyDecisionBlock is the policy engine decision that trips guard rails.
const PolicyDecisionBlock = "block"

// ChunkStream is the pull side of one chat turn. Recv blocks until the next
// chunk is produced; the producer blocks until the previous chunk is consumed,
// so at most one chunk is in flight. After Recv reports false, Err returns the
// terminal error, if any.
type ChunkStream struct {
	ch   chan domain.SSEChunk
	done chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

func newChunkStream() *ChunkStream {
	return &ChunkStream{
		ch:   make(chan domain.SSEChunk),
		done: make(chan struct{}),
	}
}

// Recv returns the next chunk. ok is false once the stream is exhausted.
func (s *ChunkStream) Recv() (chunk domain.SSEChunk, ok bool) {
	chunk, ok = <-s.ch
	return chunk, ok
}

// Err reports why the stream ended early. Nil after a complete chunk.
func (s *ChunkStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the stream. The producer stops at its next send.
func (s *ChunkStream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *ChunkStream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// send delivers one chunk, or reports false when the consumer is gone.
func (s *ChunkStream) send(chunk domain.SSEChunk) bool {
	select {
	case s.ch <- chunk:
		return true
	case <-s.done:
		return false
	}
}

// Chat runs one chat turn and returns the chunk stream for its answer.
//
// Authorization and sensitive-data rejection happen before the stream exists,
// so those failures are ordinary errors: domain.ErrUnauthorized or a
// *domain.SensitiveDataError. Everything after that is reported through the
// stream. Guard-rail hits and missing product context are not errors at all;
// they produce a fixed answer through the same chunk sequence.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest, securePermissions string) (*ChunkStream, error) {
	userID, tenantID, err := s.auth.GetUserDetails(securePermissions)
	if err != nil {
		return nil, err
	}
	if req.ChatID != "" {
		if err := s.auth.ValidateChatID(ctx, securePermissions, req.ChatID); err != nil {
			return nil, err
		}
	}

	question := safety.Sanitize(req.Text)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	redacted, reasons := safety.ScanSensitive(question)
	if len(reasons) > 0 {
		rejected := domain.RejectedMessage{
			ChatID:   req.ChatID,
			Message:  redacted,
			UserID:   userID,
			TenantID: tenantID,
			Reasons:  reasons,
		}
		if err := s.store.AddRejectedMessage(ctx, rejected); err != nil {
			return nil, fmt.Errorf("failed to record rejected message: %w", err)
		}
		s.logger.Warn("rejected question with sensitive data", "chat_id", req.ChatID, "reasons", reasons)
		return nil, &domain.SensitiveDataError{Reasons: reasons}
	}

	newChat := req.ChatID == ""
	chatID := req.ChatID
	if newChat {
		chatID, err = s.store.CreateChat(ctx, userID, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat: %w", err)
		}
	}

	// History is captured before the question is persisted so it holds prior
	// turns only, newest first within the window.
	history, err := s.chatHistory(ctx, chatID)
	if err != nil {
		return nil, err
	}

	questionMessageID, err := s.store.AddMessage(ctx, chatID, domain.AuthorRoleUser, req.Text,
		domain.MessageMeta{App: &domain.AppMeta{Version: domain.AppVersion}})
	if err != nil {
		return nil, fmt.Errorf("failed to persist question: %w", err)
	}

	turn := &chatTurn{
		service:           s,
		stream:            newChunkStream(),
		request:           req,
		question:          question,
		chatID:            chatID,
		questionMessageID: questionMessageID,
		newChat:           newChat,
		history:           history,
	}
	go turn.run(ctx)
	return turn.stream, nil
}

// chatHistory loads the most recent turns in the order the workflow expects:
// chronological, with store roles mapped to workflow roles.
func (s *ChatService) chatHistory(ctx context.Context, chatID string) ([]workflow.Message, error) {
	messages, err := s.store.GetChatMessages(ctx, chatID, s.cfg.HistoryLimit, 0, repository.OrderDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	history := make([]workflow.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		role := workflow.RoleUser
		if msg.Author.Role == domain.AuthorRoleAI {
			role = workflow.RoleAssistant
		}
		history = append(history, workflow.Message{Role: role, Content: msg.Text})
	}
	return history, nil
}
