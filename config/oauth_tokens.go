package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("no stored oauth token")

// FileTokenStore keeps the OAuth token of one service (e.g. "calendar") as
// <name>_token.json, or sealed as <name>_token.enc when a cipher is given.
type FileTokenStore struct {
	path   string
	cipher *KeyCipher
	mu     sync.RWMutex
}

func NewFileTokenStore(name, dataDir string, cipher *KeyCipher) *FileTokenStore {
	ext := ".json"
	if cipher != nil {
		ext = ".enc"
	}
	return &FileTokenStore{
		path:   filepath.Join(dataDir, name+"_token"+ext),
		cipher: cipher,
	}
}

// TokenStore builds the token store for a service under the configured
// security method, sharing the credential store's cipher.
func (c *Config) TokenStore(name string) (*FileTokenStore, error) {
	creds := c.CredentialStore
	if creds == nil {
		creds = NewCredentialStore(c.Security.Method, ExpandPath(c.Security.SSHKeyPath))
	}
	kc, err := creds.Cipher()
	if err != nil {
		return nil, err
	}
	return NewFileTokenStore(name, c.DataDir(), kc), nil
}

func (s *FileTokenStore) GetToken(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.cipher.readFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNoToken
	case err != nil:
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

func (s *FileTokenStore) SaveToken(ctx context.Context, token *oauth2.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := ensurePrivateDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := s.cipher.writeFile(s.path, data); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	Debugf("[Config] saved token to %s", s.path)
	return nil
}

func (s *FileTokenStore) Path() string {
	return s.path
}
