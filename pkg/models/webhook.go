package models

// WebhookPayload represents the incoming JSON payload from WhatsApp.
// The relay only cares about interactive button replies, so the envelope is
// trimmed to text and interactive message variants.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value  `json:"value"`
	Field string `json:"field"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages,omitempty"`
}

// Message is a single inbound WhatsApp message.
type Message struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *InteractiveMessage `json:"interactive,omitempty"`
}

// InteractiveMessage represents an interactive message response.
type InteractiveMessage struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
}

// ButtonReply represents a button click response.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FirstMessage extracts the first message from the payload, walking the
// entry/changes/value nesting defensively. WhatsApp batches notifications;
// only the first message is processed, batching being rare for this
// button-driven flow.
func (p *WebhookPayload) FirstMessage() (*Message, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil, false
	}
	value := p.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, false
	}
	return &value.Messages[0], true
}
