package testutil

import (
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: "Você é um assistente de onboarding.", Timestamp: time.Now()},
		{Role: model.RoleUser, Content: "O que é o TechLab?", Timestamp: time.Now()},
		{Role: model.RoleAssistant, Content: "É o programa de formação interno.", Timestamp: time.Now()},
		{Role: model.RoleUser, Content: "Como instalo o VSCode?", Timestamp: time.Now()},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{
		{Role: model.RoleUser, Content: content, Timestamp: time.Now()},
	}
}

// EmptyMessages returns an empty message slice for edge case testing
func EmptyMessages() []model.Message {
	return []model.Message{}
}

// TestToolSpecs returns tool specs shaped like the onboarding tools
func TestToolSpecs() []mcptypes.Tool {
	return []mcptypes.Tool{
		mcptypes.NewTool("rag_tool",
			mcptypes.WithDescription("Answer questions from the company documents"),
			mcptypes.WithString("input", mcptypes.Required(), mcptypes.Description("The question")),
		),
		mcptypes.NewTool("create_event",
			mcptypes.WithDescription("Create a calendar event"),
			mcptypes.WithString("summary", mcptypes.Required(), mcptypes.Description("Event title")),
			mcptypes.WithString("start_time", mcptypes.Required(), mcptypes.Description("YYYY-MM-DDTHH:MM:SS")),
			mcptypes.WithString("end_time", mcptypes.Required(), mcptypes.Description("YYYY-MM-DDTHH:MM:SS")),
			mcptypes.WithString("timezone", mcptypes.Description("IANA timezone"), mcptypes.Enum("America/Sao_Paulo", "UTC")),
		),
	}
}
