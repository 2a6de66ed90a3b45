// Package session drives one chat: it owns the conversation history, runs
// the router for every question and optionally saves a transcript on exit.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"onboard/agent"
	"onboard/config"
	"onboard/model"
	"onboard/storage"
)

// ErrorPrefix starts the answer shown when a turn fails.
const ErrorPrefix = "Ocorreu um erro: "

// Runner answers one question given the prior conversation.
type Runner interface {
	Run(ctx context.Context, query string, history *model.History) (agent.Result, error)
}

// TranscriptSaver persists a finished session.
type TranscriptSaver interface {
	Save(t *storage.Transcript) error
}

var _ model.Conversation = (*Session)(nil)

// Session implements model.Conversation.
type Session struct {
	id          string
	modelName   string
	router      Runner
	transcripts TranscriptSaver

	mu      sync.Mutex
	history *model.History
	saved   *storage.Transcript
}

// New starts a session. transcripts may be nil to disable saving.
func New(router Runner, transcripts TranscriptSaver, modelName string) *Session {
	return &Session{
		id:          uuid.New().String(),
		modelName:   modelName,
		router:      router,
		transcripts: transcripts,
		history:     model.NewHistory(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Ask runs one turn. The question and the answer are both appended to the
// history once the router returns; a failed turn is recorded with its error
// text so the next question still sees it.
func (s *Session) Ask(ctx context.Context, query string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.router.Run(ctx, query, s.history)
	answer := res.Answer
	if err != nil {
		config.Debugf("[Session] %s: turn failed: %v", s.id, err)
		answer = ErrorPrefix + err.Error()
	} else if res.Stop != nil {
		config.Debugf("[Session] %s: turn stopped: %v", s.id, res.Stop)
	}

	s.history.Append(model.SpeakerUser, query)
	s.history.Append(model.SpeakerAgent, answer)
	return answer
}

// Reset forgets the conversation so far.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

// History returns the live history. Callers must not mutate it while a turn
// is running.
func (s *Session) History() *model.History {
	return s.history
}

// Close saves the transcript when saving is enabled and anything was said.
// Closing twice rewrites the same transcript file.
func (s *Session) Close() error {
	if s.transcripts == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.history.Turns()
	if len(turns) == 0 {
		return nil
	}

	if s.saved == nil {
		s.saved = &storage.Transcript{ID: s.id, Model: s.modelName}
	}
	s.saved.Turns = turns
	if err := s.transcripts.Save(s.saved); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	config.Debugf("[Session] %s: saved %d turns", s.id, len(turns))
	return nil
}
