package domain

// SSE event kinds emitted during a chat turn. Ordering within a turn is
// fixed: html fragments and references, then metadata, then title (new chats
// only), then a single terminal complete.
const (
	SSEEventReferences = "references"
	SSEEventHTML       = "html"
	SSEEventMetadata   = "metadata"
	SSEEventTitle      = "title"
	SSEEventComplete   = "complete"
)

// SSEChunk is one unit of the chat response stream. Data depends on Event:
// a string for html, MessageReferences for references, SSEMetadataChunk for
// metadata, SSETitleChunk for title and SSECompleteChunk for complete.
type SSEChunk struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// MessageReferences is the references payload.
type MessageReferences struct {
	Citations []Citation `json:"citations"`
}

// SSEMetadataChunk links the streamed answer to its persisted messages.
type SSEMetadataChunk struct {
	ChatID            string `json:"chat_id"`
	MessageID         string `json:"message_id"`
	QuestionMessageID string `json:"question_message_id"`
}

// SSETitleChunk carries the generated title for a new chat.
type SSETitleChunk struct {
	GeneratedTitle string `json:"generated_title"`
}

// SSECompleteChunk marks end of stream.
type SSECompleteChunk struct {
	HTTPStatusCode int `json:"httpStatusCode"`
}
