// Package service implements the chat turn orchestration and the chat
// management operations on top of the store, auth, policy and workflow layers.
package service

import (
	"context"
	"log/slog"

	"github.com/xiaot623/genai-chat/internal/auth"
	"github.com/xiaot623/genai-chat/internal/config"
	"github.com/xiaot623/genai-chat/internal/repository"
	"github.com/xiaot623/genai-chat/internal/workflow"
)

// QuestionValidator decides whether a question may reach the model.
// Implemented by the policy engine.
type QuestionValidator interface {
	ValidateQuestion(ctx context.Context, question string) (string, error)
}

// TitleGenerator produces a short title for a new conversation. safe is
// false when the question tripped content policy; unsafe questions must not
// reach a model.
type TitleGenerator interface {
	Generate(ctx context.Context, question string, safe bool) (string, error)
}

// ChatService coordinates one chat turn end to end and serves the chat
// management operations.
type ChatService struct {
	store  repository.ChatStore
	auth   auth.Service
	runner workflow.Runner
	policy QuestionValidator
	titles TitleGenerator
	cfg    *config.Config
	logger *slog.Logger

	// handleEvent translates workflow events; substitutable in tests.
	handleEvent eventHandler
}

// NewChatService creates a new chat service.
func NewChatService(store repository.ChatStore, authSvc auth.Service, runner workflow.Runner, validator QuestionValidator, titles TitleGenerator, cfg *config.Config, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		store:       store,
		auth:        authSvc,
		runner:      runner,
		policy:      validator,
		titles:      titles,
		cfg:         cfg,
		logger:      logger,
		handleEvent: handleChatEvent,
	}
}
