package domain

import "time"

// AppVersion is stamped into message metadata so answers can be traced back
// to the build that produced them.
const AppVersion = "0.1.0"

// Chat is one conversation thread owned by a user.
type Chat struct {
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatUpdate carries the mutable chat fields.
type ChatUpdate struct {
	Title string `json:"title"`
}

// Author identifies the producer of a message.
type Author struct {
	Role AuthorRole `json:"role"`
}

// Citation points at a source document that backed an answer.
type Citation struct {
	Title         string  `json:"title"`
	Link          string  `json:"link"`
	PublishedDate int64   `json:"published_date"`
	Score         float64 `json:"score"`
}

// AppMeta records the application version that handled the turn.
type AppMeta struct {
	Version string `json:"version"`
}

// LlmMeta records which model generated an AI message.
type LlmMeta struct {
	Model LlmModel `json:"model"`
}

// MessageMeta attaches provenance to a message. Citations, the LLM identity
// and the question linkage are only set on AI messages.
type MessageMeta struct {
	Citations         []Citation `json:"citations,omitempty"`
	Llm               *LlmMeta   `json:"llm,omitempty"`
	App               *AppMeta   `json:"app,omitempty"`
	QuestionMessageID string     `json:"question_message_id,omitempty"`
}

// ChatMessage is one persisted message. Immutable once stored.
type ChatMessage struct {
	ChatID    string      `json:"chat_id"`
	MessageID string      `json:"message_id"`
	CreatedAt time.Time   `json:"created_at"`
	Author    Author      `json:"author"`
	Text      string      `json:"text"`
	Metadata  MessageMeta `json:"metadata"`
}

// ChatMessageResponse is the API shape of a message. AI message text is
// rendered to HTML; user text is returned verbatim.
type ChatMessageResponse struct {
	ChatID    string    `json:"chat_id"`
	MessageID string    `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Layouts   []Layout  `json:"layouts"`
}

// PaginatedMessages is a page of messages plus paging metadata.
type PaginatedMessages struct {
	Messages []ChatMessageResponse `json:"messages"`
	Metadata PageMeta              `json:"metadata"`
}

// PageMeta describes the returned page.
type PageMeta struct {
	Page              int `json:"page"`
	TotalMessageCount int `json:"total_message_count"`
}

// MessageFeedback is user feedback on an AI message.
type MessageFeedback struct {
	Rating     FeedbackRating     `json:"rating"`
	Categories []FeedbackCategory `json:"categories,omitempty"`
	Text       string             `json:"text,omitempty"`
}

// RejectedMessage records input that was refused before processing.
// Written once; the input is never processed further.
type RejectedMessage struct {
	ChatID   string              `json:"chat_id,omitempty"`
	Message  string              `json:"message"`
	UserID   string              `json:"user_id"`
	TenantID string              `json:"tenant_id"`
	Reasons  []SensitiveDataType `json:"rejected_reason"`
}
