package agent

import (
	"errors"
	"testing"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTool  string
		wantInput string
		wantFinal string
		wantErr   bool
	}{
		{
			name:      "action",
			text:      "Thought: preciso consultar o documento\nAction: rag_tool\nAction Input: O que são os círculos?",
			wantTool:  "rag_tool",
			wantInput: "O que são os círculos?",
		},
		{
			name:      "quoted input",
			text:      "Action: google_search\nAction Input: \"instalar jira\"",
			wantTool:  "google_search",
			wantInput: "instalar jira",
		},
		{
			name:      "numbered action",
			text:      "Action 1: default\nAction 1 Input: qualquer coisa",
			wantTool:  "default",
			wantInput: "qualquer coisa",
		},
		{
			name:      "multiline json input with fence",
			text:      "Action: create_event\nAction Input: {\"summary\": \"Demo\",\n \"location\": \"Sala 1\"}\n```",
			wantTool:  "create_event",
			wantInput: "{\"summary\": \"Demo\",\n \"location\": \"Sala 1\"}",
		},
		{
			name:      "hallucinated observation is dropped",
			text:      "Action: rag_tool\nAction Input: horário\nObservation: o horário é livre\nThought: sei a resposta\nFinal Answer: é livre",
			wantTool:  "rag_tool",
			wantInput: "horário",
		},
		{
			name:      "final answer",
			text:      "Thought: Eu sei qual deve ser a resposta\nFinal Answer: O TechLab é o programa de formação.",
			wantFinal: "O TechLab é o programa de formação.",
		},
		{
			name:      "multiline final answer",
			text:      "Final Answer: Passos:\n1. Baixe\n2. Instale",
			wantFinal: "Passos:\n1. Baixe\n2. Instale",
		},
		{name: "action and final answer", text: "Action: rag_tool\nAction Input: x\nFinal Answer: y", wantErr: true},
		{name: "free text", text: "Olá! Como posso ajudar?", wantErr: true},
		{name: "missing input", text: "Thought: hmm\nAction: rag_tool", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDecision(tt.text)
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %v (%#v)", err, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch d := d.(type) {
			case ActionDecision:
				if tt.wantTool == "" {
					t.Fatalf("got action %+v, want final answer", d)
				}
				if d.Tool != tt.wantTool || d.Input != tt.wantInput {
					t.Errorf("got (%q, %q), want (%q, %q)", d.Tool, d.Input, tt.wantTool, tt.wantInput)
				}
			case FinalDecision:
				if tt.wantFinal == "" {
					t.Fatalf("got final answer %+v, want action", d)
				}
				if d.Answer != tt.wantFinal {
					t.Errorf("answer = %q, want %q", d.Answer, tt.wantFinal)
				}
			default:
				t.Fatalf("unexpected decision %T", d)
			}
		})
	}
}

func TestParseErrorReasons(t *testing.T) {
	tests := []struct {
		text   string
		reason string
	}{
		{"sem protocolo", "missing 'Action:' after 'Thought:'"},
		{"Action: rag_tool", "missing 'Action Input:' after 'Action:'"},
		{"Action: x\nAction Input: y\nFinal Answer: z", "found both a final answer and an action"},
	}
	for _, tt := range tests {
		_, err := ParseDecision(tt.text)
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Reason != tt.reason {
			t.Errorf("ParseDecision(%q) = %v, want reason %q", tt.text, err, tt.reason)
		}
	}
}

func TestFormatAction(t *testing.T) {
	if got := formatAction("", "rag_tool", "x"); got != "Action: rag_tool\nAction Input: x" {
		t.Errorf("got %q", got)
	}
	if got := formatAction(" Thought: ok \n", "rag_tool", "x"); got != "Thought: ok\nAction: rag_tool\nAction Input: x" {
		t.Errorf("got %q", got)
	}
}
