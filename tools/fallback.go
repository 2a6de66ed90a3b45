package tools

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Apology is the fixed answer for questions outside every tool's domain, and
// the answer of last resort when the router gives up.
const Apology = "Não posso auxiliar com essa pergunta. Precisa de algo mais?"

const fallbackDescription = `Quando a pergunta não se encaixa em nenhuma das ferramentas disponíveis, responda que não pode ajudar com a pergunta com a resposta padrão:"Não posso auxiliar com essa pergunta. Precisa de algo mais?".`

// FallbackTool is the "default" tool. It always answers with Apology and
// ends the turn.
type FallbackTool struct{}

func NewFallbackTool() *FallbackTool {
	return &FallbackTool{}
}

func (FallbackTool) Name() string        { return "default" }
func (FallbackTool) Description() string { return fallbackDescription }
func (FallbackTool) ReturnDirect() bool  { return true }

func (f FallbackTool) Spec() mcptypes.Tool {
	return InputSpec(f.Name(), f.Description(), "A pergunta do usuário")
}

func (FallbackTool) Call(ctx context.Context, input string) string {
	return Apology
}
