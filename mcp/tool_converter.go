package mcp

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// The onboarding tools declare flat JSON schemas: an object whose properties
// are plain string fields. The converters below translate that schema into
// each provider's function-calling format.

// ConvertMCPToolsToOllama converts tool specs to Ollama API tool format
func ConvertMCPToolsToOllama(specs []mcptypes.Tool) []api.Tool {
	out := make([]api.Tool, 0, len(specs))
	for _, spec := range specs {
		params := api.ToolFunctionParameters{
			Type:       schemaType(spec.InputSchema),
			Required:   spec.InputSchema.Required,
			Properties: make(map[string]api.ToolProperty, len(spec.InputSchema.Properties)),
		}
		for name, raw := range spec.InputSchema.Properties {
			prop := propertyMap(raw)
			tp := api.ToolProperty{Description: stringField(prop, "description")}
			if t := stringField(prop, "type"); t != "" {
				tp.Type = api.PropertyType{t}
			}
			for _, v := range enumValues(prop) {
				tp.Enum = append(tp.Enum, v)
			}
			params.Properties[name] = tp
		}
		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// ConvertMCPToolsToOpenAIFormat converts tool specs to the OpenAI chat
// completions format, shared by OpenAI, Groq and OpenRouter.
func ConvertMCPToolsToOpenAIFormat(specs []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	out := make([]openai.ChatCompletionToolUnionParam, len(specs))
	for i, spec := range specs {
		params := openai.FunctionParameters{
			"type":       schemaType(spec.InputSchema),
			"properties": spec.InputSchema.Properties,
		}
		if len(spec.InputSchema.Required) > 0 {
			params["required"] = spec.InputSchema.Required
		}
		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        spec.Name,
			Description: openai.String(spec.Description),
			Parameters:  params,
		})
	}
	return out
}

// ConvertMCPToolsToAnthropicFormat converts tool specs to Anthropic tool params.
func ConvertMCPToolsToAnthropicFormat(specs []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}

	out := make([]anthropic.ToolUnionParam, len(specs))
	for i, spec := range specs {
		schema := anthropic.ToolInputSchemaParam{
			Properties: spec.InputSchema.Properties,
		}
		if len(spec.InputSchema.Required) > 0 {
			schema.Required = spec.InputSchema.Required
		}
		out[i] = anthropic.ToolUnionParamOfTool(schema, spec.Name)
		if spec.Description != "" {
			out[i].OfTool.Description = anthropic.String(spec.Description)
		}
	}
	return out
}

// ConvertMCPToolsToGemini converts tool specs to a single Gemini tool holding
// one function declaration per spec.
func ConvertMCPToolsToGemini(specs []mcptypes.Tool) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		params := &genai.Schema{
			Type:       genai.Type(strings.ToUpper(schemaType(spec.InputSchema))),
			Required:   spec.InputSchema.Required,
			Properties: make(map[string]*genai.Schema, len(spec.InputSchema.Properties)),
		}
		for name, raw := range spec.InputSchema.Properties {
			prop := propertyMap(raw)
			s := &genai.Schema{
				Type:        genai.Type(strings.ToUpper(stringField(prop, "type"))),
				Description: stringField(prop, "description"),
			}
			s.Enum = enumValues(prop)
			params.Properties[name] = s
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  params,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func schemaType(s mcptypes.ToolInputSchema) string {
	if s.Type == "" {
		return "object"
	}
	return s.Type
}

func propertyMap(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// enumValues reads an enum built in memory ([]string) or decoded from JSON ([]any).
func enumValues(prop map[string]any) []string {
	switch enum := prop["enum"].(type) {
	case []string:
		return enum
	case []any:
		out := make([]string, 0, len(enum))
		for _, e := range enum {
			if v, ok := e.(string); ok {
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
