package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"onboard/config"
	"onboard/model"
)

// Transcript is a saved chat session
type Transcript struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Model     string       `json:"model"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Turns     []model.Turn `json:"turns"`
}

// TranscriptMetadata is a lightweight version of Transcript for listing
type TranscriptMetadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TurnCount int       `json:"turn_count"`
}

// TranscriptStore keeps one JSON file per chat session
type TranscriptStore struct {
	dir string
}

// NewTranscriptStore creates <dataDir>/transcripts if needed
func NewTranscriptStore(dataDir string) (*TranscriptStore, error) {
	dir := filepath.Join(dataDir, "transcripts")

	// 0700 - user-only access
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
	}

	return &TranscriptStore{dir: dir}, nil
}

func (s *TranscriptStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a transcript to disk, assigning an ID when it has none
func (s *TranscriptStore) Save(t *Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}
	if t.Name == "" {
		t.Name = GenerateTranscriptName(firstUserMessage(t.Turns))
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	// 0600 - transcripts contain the user's questions
	if err := os.WriteFile(s.path(t.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}

	return nil
}

// Load reads one transcript
func (s *TranscriptStore) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}

	return &t, nil
}

// List returns metadata for all transcripts, newest first
func (s *TranscriptStore) List() ([]TranscriptMetadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts directory: %w", err)
	}

	var list []TranscriptMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			config.Debugf("[Transcripts] skipping %s: %v", entry.Name(), err)
			continue
		}

		list = append(list, TranscriptMetadata{
			ID:        t.ID,
			Name:      t.Name,
			Model:     t.Model,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
			TurnCount: len(t.Turns),
		})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})

	return list, nil
}

// Delete removes a transcript from disk
func (s *TranscriptStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		return fmt.Errorf("failed to delete transcript file: %w", err)
	}
	return nil
}

// TurnMatch is a search hit inside a saved transcript
type TurnMatch struct {
	TranscriptID   string
	TranscriptName string
	TurnIndex      int
	Role           string
	Preview        string
	Timestamp      time.Time
}

// Search looks for query (case-insensitive) in every saved turn
func (s *TranscriptStore) Search(query string) ([]TurnMatch, error) {
	if query == "" {
		return []TurnMatch{}, nil
	}

	list, err := s.List()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []TurnMatch

	for _, meta := range list {
		t, err := s.Load(meta.ID)
		if err != nil {
			continue
		}

		for i, turn := range t.Turns {
			if !strings.Contains(strings.ToLower(turn.Message), queryLower) {
				continue
			}
			matches = append(matches, TurnMatch{
				TranscriptID:   t.ID,
				TranscriptName: t.Name,
				TurnIndex:      i,
				Role:           turn.Role,
				Preview:        Preview(turn.Message, 100),
				Timestamp:      turn.Timestamp,
			})
		}
	}

	return matches, nil
}

// GenerateTranscriptName builds a name from the first user message
func GenerateTranscriptName(firstMessage string) string {
	name := strings.Join(strings.Fields(firstMessage), " ")
	if name == "" {
		return fmt.Sprintf("Conversa %s", time.Now().Format("02/01 15:04"))
	}
	return Preview(name, 30)
}

// Preview cuts s to at most n runes, adding "..." when shortened.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func firstUserMessage(turns []model.Turn) string {
	for _, t := range turns {
		if t.Role == model.SpeakerUser {
			return t.Message
		}
	}
	return ""
}
