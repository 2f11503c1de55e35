package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaot623/genai-chat/internal/adapter/llm"
)

// LLMTitleGenerator titles new chats. Short questions already make good
// titles; longer ones are summarized by the model. Questions flagged unsafe
// never reach the model.
type LLMTitleGenerator struct {
	completer llm.Completer
	prompt    string
	minLength int
}

var _ TitleGenerator = (*LLMTitleGenerator)(nil)

// NewLLMTitleGenerator creates a title generator. prompt must contain one %s
// placeholder for the question; questions shorter than minLength are used
// verbatim without calling the model.
func NewLLMTitleGenerator(completer llm.Completer, prompt string, minLength int) *LLMTitleGenerator {
	return &LLMTitleGenerator{
		completer: completer,
		prompt:    prompt,
		minLength: minLength,
	}
}

// Generate returns a title for a conversation opening with question.
func (g *LLMTitleGenerator) Generate(ctx context.Context, question string, safe bool) (string, error) {
	question = strings.TrimSpace(question)

	if !safe {
		return truncate(question, g.minLength), nil
	}
	if len(question) <= g.minLength {
		return question, nil
	}

	title, err := g.completer.Complete(ctx, fmt.Sprintf(g.prompt, question))
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	// Models like to quote their answer; the title should not carry the quotes.
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(strings.TrimPrefix(title, `"`), `"`)
	title = strings.TrimSpace(title)
	if title == "" {
		return question, nil
	}
	return title, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
