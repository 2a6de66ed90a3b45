package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// SecurityMethod selects how API keys and OAuth tokens are kept on disk.
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// Signed once per key; the hash of the signature is the AES key, so only
// deterministic schemes (ed25519, rsa) give a stable result.
const keyDerivationMessage = "onboard-encryption-key-derivation-v1"

// KeyCipher seals secrets with AES-256-GCM under a key derived from the
// user's SSH private key. A nil *KeyCipher stores data as is.
type KeyCipher struct {
	aead cipher.AEAD
}

// NewKeyCipher loads the SSH key at keyPath. The passphrase is only used
// when the key is encrypted.
func NewKeyCipher(keyPath, passphrase string) (*KeyCipher, error) {
	signer, err := loadSigner(keyPath, passphrase)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(rand.Reader, []byte(keyDerivationMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	key := sha256.Sum256(sig.Blob)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	Debugf("[Config] encryption key derived from %s (%s)", keyPath, signer.PublicKey().Type())
	return &KeyCipher{aead: aead}, nil
}

func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(pemBytes)
	var missing *ssh.PassphraseMissingError
	switch {
	case err == nil:
		return signer, nil
	case !errors.As(err, &missing):
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	case passphrase == "":
		return nil, fmt.Errorf("SSH key %s is encrypted: set ONBOARD_SSH_PASSPHRASE", keyPath)
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key (wrong passphrase?): %w", err)
	}
	return signer, nil
}

// Seal returns nonce || ciphertext || tag.
func (c *KeyCipher) Seal(plaintext []byte) ([]byte, error) {
	if c == nil {
		return plaintext, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *KeyCipher) Open(sealed []byte) ([]byte, error) {
	if c == nil {
		return sealed, nil
	}
	n := c.aead.NonceSize()
	if len(sealed) < n {
		return nil, fmt.Errorf("ciphertext too short")
	}
	plaintext, err := c.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

// writeFile seals data and writes it with user-only permissions.
func (c *KeyCipher) writeFile(path string, data []byte) error {
	sealed, err := c.Seal(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", path, err)
	}
	return os.WriteFile(path, sealed, 0600)
}

func (c *KeyCipher) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plaintext, err := c.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", path, err)
	}
	return plaintext, nil
}
