package tools

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/config"
)

// NoResults is the observation for a search with zero hits.
const NoResults = "Nenhum resultado encontrado."

const searchDescription = `Pesquise por tutoriais na web, pesquise em documentações oficiais e responda com o tutorial completo de acesso ou instalação da ferramenta solicitada, o tutorial deve ser passado em tópicos explicando passo a passo o que o usuário deve fazer.
Entre as ferramentas deste escopo estão: Github, Vscode, Jira e Discord. Deverão ser respondidas questões somente sobre essas ferramentas.
Você não deve pesquisar sobre outras ferramentas. Lembre-se de consultar o histórico de conversas para entender se a pergunta e considerar se está é a ferramenta`

// SearchResult is one web hit.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// Searcher queries a web search provider.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) ([]SearchResult, error)

func (f SearcherFunc) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return f(ctx, query)
}

// SearchTool is "google_search". Every call goes to the provider; results are
// never cached. The topic restriction lives in the description only.
type SearchTool struct {
	searcher Searcher
}

func NewSearchTool(searcher Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

func (t *SearchTool) Name() string        { return "google_search" }
func (t *SearchTool) Description() string { return searchDescription }

func (t *SearchTool) Spec() mcptypes.Tool {
	return InputSpec(t.Name(), t.Description(), "Termo de busca")
}

func (t *SearchTool) Call(ctx context.Context, input string) string {
	query := strings.TrimSpace(input)
	config.Debugf("[Search] query=%q", query)

	results, err := t.searcher.Search(ctx, query)
	if err != nil {
		config.Debugf("[Search] failed: %v", err)
		return Observation(&ToolError{Kind: KindProvider, Message: "search failed", Err: err})
	}
	if len(results) == 0 {
		return NoResults
	}
	return FormatResults(results)
}

// FormatResults renders hits as "title (link): snippet" lines.
func FormatResults(results []SearchResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		snippet := strings.Join(strings.Fields(r.Snippet), " ")
		switch {
		case r.Link != "":
			lines = append(lines, fmt.Sprintf("%s (%s): %s", r.Title, r.Link, snippet))
		default:
			lines = append(lines, fmt.Sprintf("%s: %s", r.Title, snippet))
		}
	}
	return strings.Join(lines, "\n")
}
