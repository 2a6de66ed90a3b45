package model

import (
	"strings"
	"time"
)

// Speakers of a conversation turn.
const (
	SpeakerUser  = "User"
	SpeakerAgent = "Agent"
)

// Turn is one (role, message) entry of a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// History is the ordered, append-only record of a chat session. It is owned
// by the session; the router only reads it.
type History struct {
	turns []Turn
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn at the end of the history.
func (h *History) Append(role, message string) {
	h.turns = append(h.turns, Turn{Role: role, Message: message, Timestamp: time.Now()})
}

// Turns returns a copy of the recorded turns.
func (h *History) Turns() []Turn {
	if h == nil {
		return nil
	}
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.turns)
}

// Clear drops every turn.
func (h *History) Clear() {
	h.turns = nil
}

// String renders the history as "Role: message" lines for prompt context.
func (h *History) String() string {
	if h.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, t := range h.turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.Role)
		sb.WriteString(": ")
		sb.WriteString(t.Message)
	}
	return sb.String()
}
