package main

import (
	"context"
	"fmt"
	"time"

	"onboard/agent"
	"onboard/config"
	"onboard/embeddings"
	"onboard/gcal"
	"onboard/model"
	"onboard/provider"
	"onboard/rag"
	"onboard/session"
	"onboard/storage"
	"onboard/tools"
)

// app holds everything a chat session needs, built once per process.
type app struct {
	cfg      *config.Config
	provider model.Provider
	index    *storage.VectorIndex
	catalog  *tools.Catalog
	router   *agent.Router
}

// loadConfig loads the configuration and starts debug logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.InitDebugLog(cfg.DataDir())
	return cfg, nil
}

// newApp loads the configuration, builds the document index and assembles
// the tool catalog and router. Search and calendar problems do not stop the
// startup: those tools answer with the error instead.
func newApp(ctx context.Context, progress func(string)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	llm, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.New(cfg)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(ctx, cfg, embedder, progress)
	if err != nil {
		return nil, err
	}

	retriever := &rag.Retriever{
		Index:    index,
		Embedder: embedder,
		Provider: llm,
		TopK:     cfg.Documents.TopK,
	}

	catalog, err := tools.NewCatalog(
		rag.NewTool(retriever),
		tools.NewSearchTool(newSearcher(ctx, cfg)),
		tools.NewCalendarTool(newEventCreator(cfg), cfg.Calendar.DefaultTimezone),
		tools.NewFallbackTool(),
	)
	if err != nil {
		index.Close()
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Agent.Timezone)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("invalid agent.timezone %q: %w", cfg.Agent.Timezone, err)
	}

	router := agent.NewRouter(llm, catalog, agent.Options{
		MaxIterations:  cfg.Agent.MaxIterations,
		MaxParseErrors: cfg.Agent.MaxParseErrors,
		Location:       loc,
		NativeTools:    cfg.Agent.NativeTools,
	})

	return &app{cfg: cfg, provider: llm, index: index, catalog: catalog, router: router}, nil
}

func buildIndex(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, progress func(string)) (*storage.VectorIndex, error) {
	index, err := storage.Open(cfg.IndexPath())
	if err != nil {
		return nil, err
	}

	stats, err := rag.Build(ctx, rag.BuildOptions{
		Paths:        cfg.DocumentPaths(),
		ChunkSize:    cfg.Documents.ChunkSize,
		ChunkOverlap: cfg.Documents.ChunkOverlap,
		Progress:     progress,
	}, embedder, index)
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to build document index: %w", err)
	}

	if progress != nil {
		progress(fmt.Sprintf("Índice pronto: %d documentos, %d páginas, %d trechos", stats.Documents, stats.Pages, stats.Chunks))
	}
	return index, nil
}

func newSearcher(ctx context.Context, cfg *config.Config) tools.Searcher {
	search, err := tools.NewGoogleSearch(ctx, cfg.APIKey("google_search"), cfg.Search.EngineID, cfg.Search.ResultCount)
	if err != nil {
		config.Debugf("[Search] disabled: %v", err)
		return tools.SearcherFunc(func(context.Context, string) ([]tools.SearchResult, error) {
			return nil, err
		})
	}
	return search
}

// unavailableCalendar answers every request with the reason the calendar
// could not be set up.
type unavailableCalendar struct {
	err error
}

func (u unavailableCalendar) CreateEvent(context.Context, tools.EventRequest) (string, error) {
	return "", u.err
}

func newEventCreator(cfg *config.Config) tools.EventCreator {
	oauthCfg, err := gcal.LoadOAuthConfig(cfg.CalendarCredentialsPath())
	if err != nil {
		config.Debugf("[Calendar] disabled: %v", err)
		return unavailableCalendar{err: err}
	}
	store, err := cfg.TokenStore("calendar")
	if err != nil {
		config.Debugf("[Calendar] disabled: %v", err)
		return unavailableCalendar{err: err}
	}
	return gcal.NewClient(gcal.NewFileCredentials(oauthCfg, store), cfg.Calendar.CalendarID)
}

func (a *app) newSession() (*session.Session, error) {
	var transcripts session.TranscriptSaver
	if a.cfg.SaveTranscripts {
		store, err := storage.NewTranscriptStore(a.cfg.DataDir())
		if err != nil {
			return nil, err
		}
		transcripts = store
	}
	return session.New(a.router, transcripts, a.provider.GetModel()), nil
}

func (a *app) Close() {
	if err := a.index.Close(); err != nil {
		config.Debugf("[Main] closing index: %v", err)
	}
}
