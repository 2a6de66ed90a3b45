package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"onboard/config"
	"onboard/tools"
)

type memStore struct {
	mu    sync.Mutex
	token *oauth2.Token
	saves int
}

func (m *memStore) GetToken(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil, config.ErrNoToken
	}
	t := *m.token
	return &t, nil
}

func (m *memStore) SaveToken(ctx context.Context, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.saves++
	return nil
}

type staticCreds struct {
	acquired, released int
	err                error
}

func (s *staticCreds) Acquire(ctx context.Context) (oauth2.TokenSource, ReleaseFunc, error) {
	s.acquired++
	if s.err != nil {
		return nil, nil, s.err
	}
	release := func(ctx context.Context) error {
		s.released++
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"}), release, nil
}

// tokenServer answers the OAuth token endpoint with a fixed token.
func tokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func oauthConfig(srv *httptest.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		},
	}
}

func demoRequest(t *testing.T) tools.EventRequest {
	t.Helper()
	req, err := tools.ParseEventRequest(`{"summary":"Demo","location":"Room 1","description":"test","start_time":"2024-07-05T10:00:00","end_time":"2024-07-05T11:00:00","timezone":"America/Sao_Paulo"}`, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestToEvent(t *testing.T) {
	ev := ToEvent(demoRequest(t))
	if ev.Summary != "Demo" || ev.Location != "Room 1" || ev.Description != "test" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Start.DateTime != "2024-07-05T10:00:00" || ev.Start.TimeZone != "America/Sao_Paulo" {
		t.Errorf("start = %+v", ev.Start)
	}
	if ev.End.DateTime != "2024-07-05T11:00:00" || ev.End.TimeZone != "America/Sao_Paulo" {
		t.Errorf("end = %+v", ev.End)
	}
}

func TestClientCreateEvent(t *testing.T) {
	var body map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt1","htmlLink":"https://www.google.com/calendar/event?eid=evt1"}`))
	}))
	defer srv.Close()

	creds := &staticCreds{}
	client := NewClient(creds, "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))

	link, err := client.CreateEvent(context.Background(), demoRequest(t))
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if link != "https://www.google.com/calendar/event?eid=evt1" {
		t.Errorf("link = %q", link)
	}
	if !strings.HasSuffix(path, "/calendars/primary/events") {
		t.Errorf("path = %q", path)
	}
	if body["summary"] != "Demo" {
		t.Errorf("body = %v", body)
	}
	start, _ := body["start"].(map[string]any)
	if start["dateTime"] != "2024-07-05T10:00:00" || start["timeZone"] != "America/Sao_Paulo" {
		t.Errorf("start = %v", start)
	}
	if creds.acquired != 1 || creds.released != 1 {
		t.Errorf("acquired=%d released=%d", creds.acquired, creds.released)
	}
}

func TestClientCreateEventNotAuthorized(t *testing.T) {
	creds := &staticCreds{err: ErrNotAuthorized}
	_, err := NewClient(creds, "primary").CreateEvent(context.Background(), demoRequest(t))
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("err = %v", err)
	}
	if creds.released != 0 {
		t.Error("Release called without a successful Acquire")
	}
}

func TestFileCredentials(t *testing.T) {
	ctx := context.Background()
	srv := tokenServer(t, "refreshed-access")

	t.Run("no token", func(t *testing.T) {
		creds := NewFileCredentials(oauthConfig(srv), &memStore{})
		if _, _, err := creds.Acquire(ctx); !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("valid token is not rewritten", func(t *testing.T) {
		store := &memStore{token: &oauth2.Token{AccessToken: "current", Expiry: time.Now().Add(time.Hour)}}
		creds := NewFileCredentials(oauthConfig(srv), store)

		ts, release, err := creds.Acquire(ctx)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		tok, err := ts.Token()
		if err != nil || tok.AccessToken != "current" {
			t.Fatalf("token = %+v, %v", tok, err)
		}
		if err := release(ctx); err != nil {
			t.Fatalf("Release: %v", err)
		}
		if store.saves != 0 {
			t.Errorf("saves = %d, want 0", store.saves)
		}
	})

	t.Run("expired token is refreshed and saved", func(t *testing.T) {
		store := &memStore{token: &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh-1",
			Expiry:       time.Now().Add(-time.Hour),
		}}
		creds := NewFileCredentials(oauthConfig(srv), store)

		ts, release, err := creds.Acquire(ctx)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		tok, err := ts.Token()
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
		if tok.AccessToken != "refreshed-access" {
			t.Errorf("AccessToken = %q", tok.AccessToken)
		}
		if err := release(ctx); err != nil {
			t.Fatalf("Release: %v", err)
		}
		if store.saves != 1 || store.token.AccessToken != "refreshed-access" {
			t.Errorf("saves=%d token=%+v", store.saves, store.token)
		}
	})
}

func TestFileCredentialsOverlappingAcquisitions(t *testing.T) {
	ctx := context.Background()
	srv := tokenServer(t, "refreshed-access")
	store := &memStore{token: &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}}
	creds := NewFileCredentials(oauthConfig(srv), store)

	_, releaseA, err := creds.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire A: %v", err)
	}
	tsB, releaseB, err := creds.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire B: %v", err)
	}

	// Only B uses its source, so only B's token gets refreshed
	if tok, err := tsB.Token(); err != nil || tok.AccessToken != "refreshed-access" {
		t.Fatalf("B token = %+v, %v", tok, err)
	}

	if err := releaseA(ctx); err != nil {
		t.Fatalf("release A: %v", err)
	}
	if store.saves != 0 {
		t.Errorf("saves after A = %d, want 0", store.saves)
	}

	if err := releaseB(ctx); err != nil {
		t.Fatalf("release B: %v", err)
	}
	if err := releaseB(ctx); err != nil {
		t.Fatalf("second release B: %v", err)
	}
	if store.saves != 1 || store.token.AccessToken != "refreshed-access" {
		t.Errorf("saves=%d token=%+v", store.saves, store.token)
	}
}

func TestAuthorize(t *testing.T) {
	srv := tokenServer(t, "fresh-access")
	store := &memStore{}

	openURL := func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if q.Get("code_challenge") == "" || q.Get("access_type") != "offline" {
			t.Errorf("consent URL missing PKCE or offline access: %s", authURL)
		}
		callback := q.Get("redirect_uri") + "?code=abc&state=" + url.QueryEscape(q.Get("state"))
		go func() {
			resp, err := http.Get(callback)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tok, err := Authorize(ctx, oauthConfig(srv), store, openURL)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if tok.AccessToken != "fresh-access" || tok.RefreshToken != "refresh-1" {
		t.Errorf("token = %+v", tok)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestAuthorizeDenied(t *testing.T) {
	srv := tokenServer(t, "unused")
	openURL := func(authURL string) error {
		u, _ := url.Parse(authURL)
		go func() {
			resp, err := http.Get(u.Query().Get("redirect_uri") + "?error=access_denied")
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Authorize(ctx, oauthConfig(srv), &memStore{}, openURL)
	if err == nil || !strings.Contains(err.Error(), "access_denied") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOAuthConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"s","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOAuthConfig(path)
	if err != nil {
		t.Fatalf("LoadOAuthConfig: %v", err)
	}
	if cfg.ClientID != "id.apps.googleusercontent.com" || len(cfg.Scopes) != 1 || cfg.Scopes[0] != Scope {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadOAuthConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
