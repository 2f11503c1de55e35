package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xiaot623/genai-chat/internal/config"
	"github.com/xiaot623/genai-chat/internal/service"
)

// fakeCompleter scripts the completion response.
type fakeCompleter struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func TestTitleShortQuestionUsedVerbatim(t *testing.T) {
	completer := &fakeCompleter{response: "should not be called"}
	gen := service.NewLLMTitleGenerator(completer, config.DefaultTitlePrompt, 30)

	title, err := gen.Generate(context.Background(), "What is PowerStore?", true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if title != "What is PowerStore?" {
		t.Errorf("expected question as title, got %q", title)
	}
	if completer.prompt != "" {
		t.Error("short questions must not call the model")
	}
}

func TestTitleLongQuestionSummarized(t *testing.T) {
	completer := &fakeCompleter{response: `"Snapshot scheduling"`}
	gen := service.NewLLMTitleGenerator(completer, config.DefaultTitlePrompt, 30)

	question := "How do I configure snapshot schedules on a PowerStore appliance?"
	title, err := gen.Generate(context.Background(), question, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if title != "Snapshot scheduling" {
		t.Errorf("expected unquoted model title, got %q", title)
	}
	if !strings.Contains(completer.prompt, question) {
		t.Errorf("prompt should contain the question, got %q", completer.prompt)
	}
}

func TestTitleEmptyModelAnswerFallsBack(t *testing.T) {
	completer := &fakeCompleter{response: `""`}
	gen := service.NewLLMTitleGenerator(completer, config.DefaultTitlePrompt, 10)

	title, err := gen.Generate(context.Background(), "A question longer than ten chars", true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if title != "A question longer than ten chars" {
		t.Errorf("expected fallback to question, got %q", title)
	}
}

func TestTitleUnsafeQuestionNeverReachesModel(t *testing.T) {
	completer := &fakeCompleter{response: "should not be called"}
	gen := service.NewLLMTitleGenerator(completer, config.DefaultTitlePrompt, 10)

	question := "How do I do something harmful with PowerStore?"
	title, err := gen.Generate(context.Background(), question, false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if completer.prompt != "" {
		t.Error("unsafe questions must not call the model")
	}
	if title != question[:10] {
		t.Errorf("expected question truncated to min length, got %q", title)
	}
}

func TestTitleModelFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	gen := service.NewLLMTitleGenerator(completer, config.DefaultTitlePrompt, 10)

	if _, err := gen.Generate(context.Background(), "A question longer than ten chars", true); err == nil {
		t.Fatal("expected error from failed completion")
	}
}
