// Package rag answers questions from the company documents: it builds the
// chunk index at startup and turns retrieved chunks into a grounded answer.
package rag

import (
	"context"
	"fmt"
	"path/filepath"

	"onboard/config"
	"onboard/document"
	"onboard/embeddings"
	"onboard/storage"
)

// BuildOptions configures the index build.
type BuildOptions struct {
	Paths        []string
	ChunkSize    int
	ChunkOverlap int
	// BatchSize bounds texts per embedding request (0 = default).
	BatchSize int
	// Progress receives human-readable status lines; may be nil.
	Progress func(msg string)
}

// BuildStats summarizes a finished build.
type BuildStats struct {
	Documents int
	Pages     int
	Chunks    int
	Dimension int
}

// Build loads every document in order, a repeated path only once, splits the
// pages into overlapping chunks, embeds them and replaces the index content. Any failure leaves the
// index untouched: a bad chunk configuration returns *document.ConfigError
// and an unreadable document returns *document.LoadError.
func Build(ctx context.Context, opts BuildOptions, embedder embeddings.Embedder, index *storage.VectorIndex) (BuildStats, error) {
	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}

	splitter, err := document.NewSplitter(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return BuildStats{}, err
	}

	documents := 0
	pages, err := document.Load(opts.Paths, func(path string, n int) {
		documents++
		progress(fmt.Sprintf("Carregando PDF: %s (%d páginas)", filepath.Base(path), n))
	})
	if err != nil {
		return BuildStats{}, err
	}

	progress("Dividindo os documentos...")
	chunks := splitter.SplitPages(pages)

	progress(fmt.Sprintf("Gerando embeddings de %d trechos com %s...", len(chunks), embedder.Name()))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embeddings.EmbedAll(ctx, embedder, texts, opts.BatchSize)
	if err != nil {
		return BuildStats{}, fmt.Errorf("failed to embed chunks: %w", err)
	}

	records := make([]storage.Record, len(chunks))
	for i, c := range chunks {
		records[i] = storage.Record{
			ID:        c.ID,
			Source:    filepath.Base(c.Source),
			Page:      c.Page,
			Index:     c.Index,
			Text:      c.Text,
			Embedding: vectors[i],
		}
	}

	progress("Criando o índice...")
	if err := index.Replace(ctx, records); err != nil {
		return BuildStats{}, fmt.Errorf("failed to store chunks: %w", err)
	}

	stats := BuildStats{
		Documents: documents,
		Pages:     len(pages),
		Chunks:    len(chunks),
		Dimension: index.Dimension(),
	}
	config.Debugf("[RAG] index built: %+v", stats)
	progress("Índice criado")
	return stats, nil
}
