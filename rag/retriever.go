package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"onboard/config"
	"onboard/embeddings"
	"onboard/model"
	"onboard/storage"
)

// DefaultTopK is the number of chunks handed to the model.
const DefaultTopK = 4

// NotFound is the answer the prompt asks for when the context lacks the
// information. The model is not forced to use it.
const NotFound = "Não encontrei essa informação nos documentos da empresa."

const promptTemplate = `Você é um assistente para tarefas de perguntas e respostas. Use os seguintes trechos de contexto recuperado para responder à pergunta. Se a resposta não estiver no contexto, responda apenas: "%s". Use no máximo três frases e mantenha a resposta concisa.
Pergunta: %s
Contexto: %s
Resposta:`

// Index is the read side of the chunk index.
type Index interface {
	Search(ctx context.Context, query []float32, k int) ([]storage.Match, error)
}

// Retriever answers a question from the top-k most similar chunks.
type Retriever struct {
	Index    Index
	Embedder embeddings.Embedder
	Provider model.Provider
	TopK     int
}

// Answer retrieves context for query and returns the model's reply verbatim.
// An empty index still produces a model call, with an empty context.
func (r *Retriever) Answer(ctx context.Context, query string) (string, error) {
	start := time.Now()
	k := r.TopK
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := embeddings.EmbedQuery(ctx, r.Embedder, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.Index.Search(ctx, vec, k)
	if err != nil {
		return "", fmt.Errorf("failed to search index: %w", err)
	}
	for _, m := range matches {
		config.Debugf("[RAG] hit %s p.%d #%d score=%.3f", m.Source, m.Page, m.Index, m.Score)
	}

	prompt := BuildPrompt(query, JoinContext(matches))
	answer, err := model.Complete(ctx, r.Provider, []model.Message{
		{Role: model.RoleUser, Content: prompt, Timestamp: time.Now()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	config.Debugf("[RAG] answered with %d chunks in %s", len(matches), time.Since(start))
	return answer, nil
}

// JoinContext concatenates chunk texts in the given order, separated by a
// blank line.
func JoinContext(matches []storage.Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return strings.Join(texts, "\n\n")
}

// BuildPrompt fills the fixed question-answering template.
func BuildPrompt(question, docs string) string {
	return fmt.Sprintf(promptTemplate, NotFound, question, docs)
}
