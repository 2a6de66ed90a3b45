package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// CredentialStore holds API keys by provider ID: groq, openai, openrouter,
// anthropic, gemini and google_search. With the ssh_key method the file is
// sealed by a KeyCipher and the key passphrase comes from
// ONBOARD_SSH_PASSPHRASE.
type CredentialStore struct {
	method     SecurityMethod
	sshKeyPath string
	cipher     *KeyCipher
	keys       map[string]string
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:     method,
		sshKeyPath: sshKeyPath,
		keys:       make(map[string]string),
	}
}

// Cipher returns the cipher guarding secrets, loading the SSH key on first
// use. It is nil for the plaintext method.
func (c *CredentialStore) Cipher() (*KeyCipher, error) {
	switch c.method {
	case SecurityPlainText:
		return nil, nil
	case SecuritySSHKey:
	default:
		return nil, fmt.Errorf("unknown security method: %s", c.method)
	}

	if c.cipher == nil {
		kc, err := NewKeyCipher(c.sshKeyPath, os.Getenv("ONBOARD_SSH_PASSPHRASE"))
		if err != nil {
			return nil, err
		}
		c.cipher = kc
	}
	return c.cipher, nil
}

// Path is credentials.toml in plaintext and credentials.enc when sealed.
func (c *CredentialStore) Path(dataDir string) string {
	if c.method == SecuritySSHKey {
		return filepath.Join(dataDir, "credentials.enc")
	}
	return filepath.Join(dataDir, "credentials.toml")
}

// Load replaces the keys in memory with the ones on disk. A missing file
// is an empty store and does not touch the SSH key.
func (c *CredentialStore) Load(dataDir string) error {
	path := c.Path(dataDir)
	if !FileExists(path) {
		c.keys = make(map[string]string)
		return nil
	}

	kc, err := c.Cipher()
	if err != nil {
		return err
	}
	data, err := kc.readFile(path)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	var f credentialsFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}
	c.keys = f.Credentials
	if c.keys == nil {
		c.keys = make(map[string]string)
	}
	Debugf("[Config] loaded %d credentials from %s", len(c.keys), path)
	return nil
}

func (c *CredentialStore) Save(dataDir string) error {
	kc, err := c.Cipher()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(credentialsFile{Credentials: c.keys}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := ensurePrivateDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := kc.writeFile(c.Path(dataDir), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

func (c *CredentialStore) Get(providerID string) string {
	return c.keys[providerID]
}

// Set stores a key for providerID. An empty key removes it.
func (c *CredentialStore) Set(providerID, key string) error {
	if providerID == "" {
		return fmt.Errorf("provider ID must not be empty")
	}
	if key == "" {
		delete(c.keys, providerID)
		return nil
	}
	c.keys[providerID] = key
	return nil
}

// Providers lists the provider IDs that have a stored key.
func (c *CredentialStore) Providers() []string {
	ids := make([]string, 0, len(c.keys))
	for id := range c.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
