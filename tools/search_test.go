package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

type countingSearcher struct {
	mu      sync.Mutex
	queries []string
	results []SearchResult
	err     error
}

func (c *countingSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	return c.results, c.err
}

func TestSearchToolDoesNotCache(t *testing.T) {
	searcher := &countingSearcher{results: []SearchResult{
		{Title: "Installing VS Code", Link: "https://code.visualstudio.com/docs/setup/linux", Snippet: "Download the .deb package"},
	}}
	tool := NewSearchTool(searcher)

	first := tool.Call(context.Background(), "instalar vscode linux")
	second := tool.Call(context.Background(), "instalar vscode linux")

	if len(searcher.queries) != 2 {
		t.Fatalf("provider called %d times, want 2", len(searcher.queries))
	}
	if first != second {
		t.Errorf("outputs differ: %q vs %q", first, second)
	}
	if !strings.Contains(first, "code.visualstudio.com") {
		t.Errorf("output = %q", first)
	}
}

func TestSearchToolEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		searcher *countingSearcher
		want     string
	}{
		{"no results", &countingSearcher{}, NoResults},
		{"provider failure", &countingSearcher{err: errors.New("quota exceeded")}, "quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewSearchTool(tt.searcher).Call(context.Background(), "jira")
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want containing %q", out, tt.want)
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	got := FormatResults([]SearchResult{
		{Title: "Discord", Link: "https://discord.com/download", Snippet: "Baixe o\n  Discord"},
		{Title: "Sem link", Snippet: "texto"},
	})
	want := "Discord (https://discord.com/download): Baixe o Discord\nSem link: texto"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGoogleSearch(t *testing.T) {
	var gotQuery, gotCx string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCx = r.URL.Query().Get("cx")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"title":"GitHub Docs","link":"https://docs.github.com","snippet":"Get started"}]}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	g, err := NewGoogleSearch(ctx, "test-key", "engine-1", 3,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewGoogleSearch: %v", err)
	}

	results, err := g.Search(ctx, "github ssh key")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "github ssh key" || gotCx != "engine-1" {
		t.Errorf("q=%q cx=%q", gotQuery, gotCx)
	}
	if len(results) != 1 || results[0].Link != "https://docs.github.com" {
		t.Errorf("results = %+v", results)
	}
}

func TestNewGoogleSearchRequiresCredentials(t *testing.T) {
	if _, err := NewGoogleSearch(context.Background(), "", "cx", 5); err == nil {
		t.Error("expected error without API key")
	}
	if _, err := NewGoogleSearch(context.Background(), "key", "", 5); err == nil {
		t.Error("expected error without engine ID")
	}
}
