package mcp

import (
	"context"
	"io"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"onboard/config"
	"onboard/tools"
)

const serverName = "onboard"

// NewServer exposes every catalog tool over MCP. Arguments are flattened
// with tools.InputFromArguments, the same way native tool calls are.
func NewServer(catalog *tools.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	for _, t := range catalog.Tools() {
		s.AddTool(t.Spec(), toolHandler(t))
	}
	return s
}

func toolHandler(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
		input := tools.InputFromArguments(req.GetArguments())
		config.Debugf("[MCP] %s(%q)", t.Name(), input)

		out := t.Call(ctx, input)
		if strings.HasPrefix(out, tools.ErrorPrefix) {
			return mcptypes.NewToolResultError(out), nil
		}
		return mcptypes.NewToolResultText(out), nil
	}
}

// ServeTools serves the catalog over stdio until in is closed or ctx is done.
func ServeTools(ctx context.Context, catalog *tools.Catalog, version string, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(NewServer(catalog, version)).Listen(ctx, in, out)
}
