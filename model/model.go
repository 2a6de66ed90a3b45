package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"onboard/config"
)

// Conversation is the chat session driven by the UI.
type Conversation interface {
	ID() string
	Ask(ctx context.Context, query string) string
	Reset()
	History() *History
	Close() error
}

// Model holds the core application data and business logic state
type Model struct {
	Config  *config.Config
	Session Conversation

	// Transcript shown in the UI, one entry per user question or answer
	Messages []Message

	Busy     bool
	Quitting bool

	Version string
}

// NewModel creates a new Model for a chat session
func NewModel(cfg *config.Config, session Conversation, version string) *Model {
	return &Model{
		Config:  cfg,
		Session: session,
		Version: version,
	}
}

// AddMessage appends a transcript entry and returns its index.
func (m *Model) AddMessage(role, content string) int {
	m.Messages = append(m.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return len(m.Messages) - 1
}

// LastAnswer returns the most recent assistant message, if any.
func (m *Model) LastAnswer() (string, bool) {
	for i := len(m.Messages) - 1; i >= 0; i-- {
		if m.Messages[i].Role == RoleAssistant {
			return m.Messages[i].Content, true
		}
	}
	return "", false
}

// SendQuery runs one session turn in the background.
func (m *Model) SendQuery(ctx context.Context, query string) tea.Cmd {
	session := m.Session
	return func() tea.Msg {
		start := time.Now()
		answer := session.Ask(ctx, query)
		config.Debugf("[Model] turn finished in %s", time.Since(start))
		return AnswerMsg{Query: query, Answer: answer}
	}
}

// ClearConversation drops both the session history and the UI transcript.
func (m *Model) ClearConversation() {
	m.Session.Reset()
	m.Messages = nil
}

// CloseSession persists the session on exit.
func (m *Model) CloseSession() tea.Cmd {
	session := m.Session
	return func() tea.Msg {
		return SessionClosedMsg{Err: session.Close()}
	}
}
