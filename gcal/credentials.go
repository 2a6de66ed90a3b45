// Package gcal creates Google Calendar events on behalf of the user. OAuth
// tokens are obtained once with Authorize and then acquired per call through
// a CredentialProvider, which refreshes them as needed.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"onboard/config"
)

// Scope grants event creation only.
const Scope = calendar.CalendarEventsScope

// ErrNotAuthorized means no token has been stored yet.
var ErrNotAuthorized = errors.New("calendar access not authorized: run `onboard auth`")

// TokenStore persists the OAuth token between runs.
type TokenStore interface {
	GetToken(ctx context.Context) (*oauth2.Token, error)
	SaveToken(ctx context.Context, token *oauth2.Token) error
}

// ReleaseFunc ends one acquisition. Calling it again does nothing.
type ReleaseFunc func(ctx context.Context) error

// CredentialProvider hands out a token source for the duration of one
// calendar call. Every successful Acquire returns its own release, so
// overlapping calls never share state.
type CredentialProvider interface {
	Acquire(ctx context.Context) (oauth2.TokenSource, ReleaseFunc, error)
}

// LoadOAuthConfig reads the OAuth client file downloaded from the Google
// Cloud console.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth client file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client file: %w", err)
	}
	return cfg, nil
}

// FileCredentials serves the token kept in a TokenStore. Expired access
// tokens are refreshed transparently and the refreshed token is written back
// when the acquisition that refreshed it is released.
type FileCredentials struct {
	oauth *oauth2.Config
	store TokenStore

	// serializes store access across acquisitions
	mu sync.Mutex
}

func NewFileCredentials(oauthCfg *oauth2.Config, store TokenStore) *FileCredentials {
	return &FileCredentials{oauth: oauthCfg, store: store}
}

func (f *FileCredentials) Acquire(ctx context.Context) (oauth2.TokenSource, ReleaseFunc, error) {
	f.mu.Lock()
	issued, err := f.store.GetToken(ctx)
	f.mu.Unlock()
	if errors.Is(err, config.ErrNoToken) {
		return nil, nil, ErrNotAuthorized
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load calendar token: %w", err)
	}

	source := &leasedSource{base: f.oauth.TokenSource(ctx, issued)}
	var once sync.Once
	release := func(ctx context.Context) error {
		var err error
		once.Do(func() { err = f.saveIfRefreshed(ctx, source.last(), issued) })
		return err
	}
	return source, release, nil
}

// saveIfRefreshed writes back the token the caller last used when it
// differs from the stored one. Nothing is fetched here.
func (f *FileCredentials) saveIfRefreshed(ctx context.Context, used, issued *oauth2.Token) error {
	if used == nil || used.AccessToken == issued.AccessToken {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	config.Debugf("[Calendar] token refreshed, expires %s", used.Expiry)
	if err := f.store.SaveToken(ctx, used); err != nil {
		return fmt.Errorf("failed to save refreshed token: %w", err)
	}
	return nil
}

// leasedSource remembers the last token it handed out.
type leasedSource struct {
	base oauth2.TokenSource

	mu    sync.Mutex
	token *oauth2.Token
}

func (l *leasedSource) Token() (*oauth2.Token, error) {
	tok, err := l.base.Token()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.token = tok
	l.mu.Unlock()
	return tok, nil
}

func (l *leasedSource) last() *oauth2.Token {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token
}
