package rag

import (
	"context"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/config"
	"onboard/tools"
)

const toolDescription = `Retrieve e generate informação do documento pdf com as informações da empresa Tech4Humans e também do TechLab Agentes. Caso o assunto seja abordado no pdf, monte uma resposta final unindo as informações disponíveis, se a informação não for encontrada, responda com uma resposta padrão.
Lembre-se de consultar o histórico de conversas para entender se a pergunta e considerar se está é a ferramenta.`

// Tool exposes a Retriever to the router as "rag_tool".
type Tool struct {
	retriever *Retriever
}

func NewTool(r *Retriever) *Tool {
	return &Tool{retriever: r}
}

func (t *Tool) Name() string        { return "rag_tool" }
func (t *Tool) Description() string { return toolDescription }

func (t *Tool) Spec() mcptypes.Tool {
	return tools.InputSpec(t.Name(), t.Description(), "A pergunta sobre a empresa")
}

func (t *Tool) Call(ctx context.Context, input string) string {
	query := strings.TrimSpace(input)
	config.Debugf("[RAG] query=%q", query)

	answer, err := t.retriever.Answer(ctx, query)
	if err != nil {
		config.Debugf("[RAG] failed: %v", err)
		return tools.Observation(&tools.ToolError{Kind: tools.KindProvider, Message: "document lookup failed", Err: err})
	}
	return answer
}
