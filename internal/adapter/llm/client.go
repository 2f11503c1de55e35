// Package llm provides the completion client used for auxiliary generation
// tasks such as chat titles. The agent workflow talks to the model on its own;
// this client exists for the small completions the service makes directly.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer produces one completion for one prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient is a Completer backed by an OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Completer = (*OpenAIClient)(nil)

// NewOpenAIClient creates a completion client against an OpenAI-compatible
// base URL. The base URL points at whatever serves the model locally.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends the prompt as a single-turn chat completion and returns the
// trimmed response text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
