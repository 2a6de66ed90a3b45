package tools

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResultCount is the page size limit of the Custom Search API.
const maxResultCount = 10

// GoogleSearch queries a Programmable Search Engine through the Custom
// Search JSON API.
type GoogleSearch struct {
	service  *customsearch.Service
	engineID string
	count    int64
}

// NewGoogleSearch needs an API key (GOOGLE_API_KEY) and the engine ID
// (GOOGLE_CSE_ID). Extra options are passed to the API client.
func NewGoogleSearch(ctx context.Context, apiKey, engineID string, count int, opts ...option.ClientOption) (*GoogleSearch, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google search API key is not configured (GOOGLE_API_KEY)")
	}
	if engineID == "" {
		return nil, fmt.Errorf("google search engine ID is not configured (GOOGLE_CSE_ID)")
	}
	if count <= 0 || count > maxResultCount {
		count = maxResultCount
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}

	return &GoogleSearch{service: svc, engineID: engineID, count: int64(count)}, nil
}

func (g *GoogleSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	res, err := g.service.Cse.List().
		Q(query).
		Cx(g.engineID).
		Num(g.count).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	results := make([]SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
