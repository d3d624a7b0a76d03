package agent

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Engine abstracts the external text-generation service. All "intelligence"
// beyond the fixed catalog and heuristics is delegated through it.
type Engine interface {
	// Chat sends messages to the given model and returns the assistant's
	// response text.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
