// Package workflow wraps the external agent workflow engine behind a small
// event-stream abstraction so the chat service can be tested against
// synthetic event sources.
package workflow

import (
	"context"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// Event types emitted by the agent workflow stream.
const (
	EventDelta      = "delta"
	EventSources    = "sources"
	EventGuardRails = "guardrails"
	EventDone       = "done"
)

// Event is one workflow-emitted event. Fields are populated per Type.
type Event struct {
	Type      string
	Delta     string
	Citations []domain.Citation
	Message   string
}

// Message is one prior turn in the representation the workflow expects.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Workflow roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// RunInput is the input to one workflow invocation.
type RunInput struct {
	UserInput   string            `json:"user_input"`
	ChatHistory []Message         `json:"chat_history"`
	Context     map[string]string `json:"context"`
}

// Handle exposes a running workflow invocation. Events yields a lazy, finite,
// non-restartable sequence; Err reports the terminal outcome once the channel
// is closed. Close releases the invocation when the consumer abandons it.
type Handle interface {
	Events() <-chan Event
	Err() error
	Close()
}

// Runner starts agent workflow invocations.
type Runner interface {
	Run(ctx context.Context, input RunInput) (Handle, error)
}
