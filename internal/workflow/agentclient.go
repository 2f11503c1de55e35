package workflow

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// AgentClient invokes the agent workflow over HTTP and exposes its SSE stream
// as a Handle.
type AgentClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewAgentClient creates a new agent workflow client.
func NewAgentClient(endpoint string, timeout time.Duration) *AgentClient {
	return &AgentClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Run posts the input to the agent's /run endpoint and streams SSE events.
func (c *AgentClient) Run(ctx context.Context, input RunInput) (Handle, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/run", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke agent workflow: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("agent workflow returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	h := &streamHandle{
		events: make(chan Event),
		body:   resp.Body,
		done:   make(chan struct{}),
	}
	go h.consume()
	return h, nil
}

// streamHandle reads the SSE response body and forwards parsed events.
type streamHandle struct {
	events chan Event
	body   io.ReadCloser
	done   chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

func (h *streamHandle) Events() <-chan Event { return h.events }

func (h *streamHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *streamHandle) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.body.Close()
	})
}

func (h *streamHandle) consume() {
	defer close(h.events)
	defer h.Close()

	err := parseSSE(h.body, func(event, data string) error {
		ev, perr := decodeEvent(event, data)
		if perr != nil {
			// Skip malformed events rather than killing the stream.
			return nil
		}
		select {
		case h.events <- ev:
			return nil
		case <-h.done:
			return io.ErrClosedPipe
		}
	})
	if err != nil && err != io.ErrClosedPipe {
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
	}
}

// parseSSE parses an SSE stream and calls the handler for each event.
func parseSSE(reader io.Reader, handler func(event, data string) error) error {
	scanner := bufio.NewScanner(reader)
	var event, data string

	flush := func() error {
		if event == "" && data == "" {
			return nil
		}
		err := handler(event, data)
		event, data = "", ""
		return err
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line marks end of event.
		if line == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			chunk := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data != "" {
				data += "\n" + chunk
			} else {
				data = chunk
			}
		}
		// Ignore comments (lines starting with :) and other fields.
	}

	if err := flush(); err != nil {
		return err
	}
	return scanner.Err()
}

func decodeEvent(event, data string) (Event, error) {
	switch event {
	case EventDelta:
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return Event{}, fmt.Errorf("failed to parse delta event: %w", err)
		}
		return Event{Type: EventDelta, Delta: payload.Text}, nil
	case EventSources:
		var payload struct {
			Citations []struct {
				Title         string  `json:"title"`
				Link          string  `json:"link"`
				PublishedDate int64   `json:"published_date"`
				Score         float64 `json:"score"`
			} `json:"citations"`
		}
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return Event{}, fmt.Errorf("failed to parse sources event: %w", err)
		}
		ev := Event{Type: EventSources}
		for _, c := range payload.Citations {
			ev.Citations = append(ev.Citations, domain.Citation{
				Title:         c.Title,
				Link:          c.Link,
				PublishedDate: c.PublishedDate,
				Score:         c.Score,
			})
		}
		return ev, nil
	case EventGuardRails:
		var payload struct {
			Message string `json:"message"`
		}
		// Guardrail events may carry no body at all.
		_ = json.Unmarshal([]byte(data), &payload)
		return Event{Type: EventGuardRails, Message: payload.Message}, nil
	case EventDone:
		return Event{Type: EventDone}, nil
	default:
		return Event{}, fmt.Errorf("unknown event type %q", event)
	}
}
