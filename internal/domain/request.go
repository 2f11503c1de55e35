package domain

// IntentContext is the caller-declared scope of a question: which products it
// concerns and which tools may serve it.
type IntentContext struct {
	Products []Product `json:"products,omitempty"`
	Tools    []string  `json:"tools,omitempty"`
}

// ChatRequest is one user question. ChatID is empty for a new conversation.
type ChatRequest struct {
	ChatID        string         `json:"chat_id,omitempty"`
	Text          string         `json:"text"`
	IntentContext *IntentContext `json:"intent_context,omitempty"`
}

// HasProduct reports whether the caller declared at least one product.
func (r ChatRequest) HasProduct() bool {
	return r.IntentContext != nil && len(r.IntentContext.Products) > 0
}
