package model

import "time"

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message sent to or received from a provider,
// and a rendered entry of the chat transcript in the UI.
type Message struct {
	Role      string
	Content   string
	Rendered  string // Cached rendered markdown
	Timestamp time.Time
}

// ToolCall is a provider-agnostic native function call emitted by a model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}
