// Package tools holds the capabilities the router can call: company document
// lookup, restricted web search, calendar event creation and the default
// fallback. Every tool takes text and returns text; failures are reported as
// observation text, never as errors to the caller.
package tools

import (
	"context"
	"encoding/json"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Tool is a named capability offered to the router.
type Tool interface {
	Name() string
	// Description tells the model when to pick the tool.
	Description() string
	// Spec is the JSON-schema form of the tool, used for native function
	// calling and the MCP server.
	Spec() mcptypes.Tool
	Call(ctx context.Context, input string) string
}

// DirectTool is implemented by tools whose output ends the turn as the final
// answer, without another model step.
type DirectTool interface {
	Tool
	ReturnDirect() bool
}

// IsReturnDirect reports whether t ends the turn with its own output.
func IsReturnDirect(t Tool) bool {
	d, ok := t.(DirectTool)
	return ok && d.ReturnDirect()
}

// InputFromArguments flattens structured tool arguments into the text input
// tools accept: the "input" string when present, otherwise the JSON object.
func InputFromArguments(args map[string]any) string {
	if s, ok := args["input"].(string); ok {
		return s
	}
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(data)
}

// InputSpec builds the schema of a tool with a single free-text argument.
func InputSpec(name, description, inputDescription string) mcptypes.Tool {
	return mcptypes.NewTool(name,
		mcptypes.WithDescription(description),
		mcptypes.WithString("input", mcptypes.Required(), mcptypes.Description(inputDescription)),
	)
}
