package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/workflow"
)

// eventHandler translates one workflow event into stream effects on the turn.
// Held as a function field on ChatService so tests can substitute it.
type eventHandler func(t *chatTurn, event workflow.Event) error

// chatTurn carries the state of one in-flight turn while the workflow stream
// is translated into answer chunks.
type chatTurn struct {
	service *ChatService
	stream  *ChunkStream
	request domain.ChatRequest

	question          string
	chatID            string
	questionMessageID string
	newChat           bool
	unsafe            bool
	history           []workflow.Message

	answer    strings.Builder
	citations []domain.Citation
}

// errStreamAbandoned stops the turn when the consumer closed the stream.
var errStreamAbandoned = errors.New("chunk stream abandoned by consumer")

func (t *chatTurn) run(ctx context.Context) {
	defer close(t.stream.ch)

	err := t.produce(ctx)
	if errors.Is(err, errStreamAbandoned) {
		t.service.logger.Info("chat turn abandoned", "chat_id", t.chatID)
		return
	}
	if err != nil {
		t.service.logger.Error("chat turn failed", "chat_id", t.chatID, "error", err)
		t.stream.fail(err)
	}
}

func (t *chatTurn) produce(ctx context.Context) error {
	if !t.request.HasProduct() && !mentionsProduct(t.question) {
		return t.fixedAnswer(ctx, MissingProductAnswer)
	}

	decision, err := t.service.policy.ValidateQuestion(ctx, t.question)
	if err != nil {
		return fmt.Errorf("failed to validate question: %w", err)
	}
	if decision == PolicyDecisionBlock {
		t.service.logger.Warn("question blocked by policy", "chat_id", t.chatID)
		t.unsafe = true
		return t.fixedAnswer(ctx, GuardRailsAnswer)
	}

	handle, err := t.service.runner.Run(ctx, workflow.RunInput{
		UserInput:   t.question,
		ChatHistory: t.history,
		Context:     t.runContext(),
	})
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}
	defer handle.Close()

	for event := range handle.Events() {
		if err := t.service.handleEvent(t, event); err != nil {
			if errors.Is(err, domain.ErrGuardRails) {
				t.unsafe = true
				return t.fixedAnswer(ctx, GuardRailsAnswer)
			}
			return err
		}
	}
	if err := handle.Err(); err != nil {
		return fmt.Errorf("workflow stream failed: %w", err)
	}

	if len(t.citations) > 0 {
		if !t.stream.send(domain.SSEChunk{
			Event: domain.SSEEventReferences,
			Data:  domain.MessageReferences{Citations: t.citations},
		}) {
			return errStreamAbandoned
		}
	}

	meta := domain.MessageMeta{
		Citations:         t.citations,
		Llm:               &domain.LlmMeta{Model: domain.LlmLlama3_8B},
		App:               &domain.AppMeta{Version: domain.AppVersion},
		QuestionMessageID: t.questionMessageID,
	}
	return t.finish(ctx, t.answer.String(), meta)
}

// handleChatEvent is the default event translator. Deltas accumulate as plain
// text and stream as html fragments; sources are collected and surfaced once
// the answer has drained; guardrail events abort into the fixed answer.
func handleChatEvent(t *chatTurn, event workflow.Event) error {
	switch event.Type {
	case workflow.EventDelta:
		t.answer.WriteString(event.Delta)
		if !t.stream.send(domain.SSEChunk{Event: domain.SSEEventHTML, Data: "<p>" + event.Delta + "</p>"}) {
			return errStreamAbandoned
		}
	case workflow.EventSources:
		t.citations = append(t.citations, event.Citations...)
	case workflow.EventGuardRails:
		return domain.ErrGuardRails
	case workflow.EventDone:
	default:
		t.service.logger.Warn("ignoring unknown workflow event", "type", event.Type)
	}
	return nil
}

// fixedAnswer short-circuits the turn with a canned answer, keeping the chunk
// sequence a client expects: empty references, the answer, then the tail.
func (t *chatTurn) fixedAnswer(ctx context.Context, answer string) error {
	if !t.stream.send(domain.SSEChunk{
		Event: domain.SSEEventReferences,
		Data:  domain.MessageReferences{Citations: []domain.Citation{}},
	}) {
		return errStreamAbandoned
	}
	if !t.stream.send(domain.SSEChunk{Event: domain.SSEEventHTML, Data: "<p>" + answer + "</p>"}) {
		return errStreamAbandoned
	}

	meta := domain.MessageMeta{
		Citations:         []domain.Citation{},
		Llm:               &domain.LlmMeta{Model: domain.LlmLlama3_8B},
		App:               &domain.AppMeta{Version: domain.AppVersion},
		QuestionMessageID: t.questionMessageID,
	}
	return t.finish(ctx, answer, meta)
}

// finish persists the answer and emits metadata, title (new chats) and the
// terminal complete chunk.
func (t *chatTurn) finish(ctx context.Context, answer string, meta domain.MessageMeta) error {
	messageID, err := t.service.store.AddMessage(ctx, t.chatID, domain.AuthorRoleAI, answer, meta)
	if err != nil {
		return fmt.Errorf("failed to persist answer: %w", err)
	}

	if !t.stream.send(domain.SSEChunk{
		Event: domain.SSEEventMetadata,
		Data: domain.SSEMetadataChunk{
			ChatID:            t.chatID,
			MessageID:         messageID,
			QuestionMessageID: t.questionMessageID,
		},
	}) {
		return errStreamAbandoned
	}

	if t.newChat {
		if abandoned := t.emitTitle(ctx); abandoned {
			return errStreamAbandoned
		}
	}

	if !t.stream.send(domain.SSEChunk{
		Event: domain.SSEEventComplete,
		Data:  domain.SSECompleteChunk{HTTPStatusCode: 204},
	}) {
		return errStreamAbandoned
	}
	return nil
}

// emitTitle names a new chat after its first question. Title generation is
// best effort; a failure is logged and the chunk skipped.
func (t *chatTurn) emitTitle(ctx context.Context) (abandoned bool) {
	title, err := t.service.titles.Generate(ctx, t.question, !t.unsafe)
	if err != nil {
		t.service.logger.Warn("failed to generate chat title", "chat_id", t.chatID, "error", err)
		return false
	}
	if err := t.service.store.RenameChat(ctx, t.chatID, title); err != nil {
		t.service.logger.Warn("failed to save chat title", "chat_id", t.chatID, "error", err)
		return false
	}
	return !t.stream.send(domain.SSEChunk{
		Event: domain.SSEEventTitle,
		Data:  domain.SSETitleChunk{GeneratedTitle: title},
	})
}

// runContext flattens the intent context into the workflow's string map.
func (t *chatTurn) runContext() map[string]string {
	if t.request.IntentContext == nil {
		return nil
	}
	rc := make(map[string]string, 2)
	if len(t.request.IntentContext.Products) > 0 {
		products := make([]string, len(t.request.IntentContext.Products))
		for i, p := range t.request.IntentContext.Products {
			products[i] = string(p)
		}
		rc["products"] = strings.Join(products, ",")
	}
	if len(t.request.IntentContext.Tools) > 0 {
		rc["tools"] = strings.Join(t.request.IntentContext.Tools, ",")
	}
	return rc
}

// mentionsProduct reports whether the question names a known product, which
// counts as product context even without an intent declaration.
func mentionsProduct(question string) bool {
	q := strings.ToUpper(question)
	for _, p := range domain.KnownProducts {
		if strings.Contains(q, string(p)) {
			return true
		}
	}
	return false
}
