package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/model"
	"onboard/provider/testutil"
	"onboard/tools"
)

type spyTool struct {
	name   string
	output string

	mu     sync.Mutex
	inputs []string
}

func (s *spyTool) Name() string        { return s.name }
func (s *spyTool) Description() string { return "ferramenta " + s.name }
func (s *spyTool) Spec() mcptypes.Tool { return tools.InputSpec(s.name, s.Description(), "input") }

func (s *spyTool) Call(ctx context.Context, input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)
	return s.output
}

func (s *spyTool) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

type fixture struct {
	rag, search, calendar *spyTool
	catalog               *tools.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rag:      &spyTool{name: "rag_tool", output: "Os círculos são as áreas da empresa."},
		search:   &spyTool{name: "google_search", output: "Baixe o VSCode em code.visualstudio.com"},
		calendar: &spyTool{name: "create_event", output: "Event created: https://calendar/x"},
	}
	catalog, err := tools.NewCatalog(f.rag, f.search, f.calendar, tools.NewFallbackTool())
	if err != nil {
		t.Fatal(err)
	}
	f.catalog = catalog
	return f
}

func fixedClock() time.Time {
	return time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)
}

func newRouter(p model.Provider, catalog *tools.Catalog, opts Options) *Router {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	opts.Location = loc
	opts.Now = fixedClock
	return NewRouter(p, catalog, opts)
}

func TestOutOfDomainQueryEndsInDefault(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedProvider(
		"Thought: A pergunta não se encaixa em nenhuma ferramenta.\nAction: default\nAction Input: Não posso auxiliar com essa pergunta. Precisa de algo mais?",
	)
	r := newRouter(llm, f.catalog, Options{})

	res, err := r.Run(context.Background(), "What is the capital of France?", model.NewHistory())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != tools.Apology {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.Stop != nil {
		t.Errorf("Stop = %v", res.Stop)
	}
	if f.rag.calls() != 0 || f.search.calls() != 0 || f.calendar.calls() != 0 {
		t.Errorf("domain tools called: rag=%d search=%d calendar=%d", f.rag.calls(), f.search.calls(), f.calendar.calls())
	}
	if llm.Calls() != 1 {
		t.Errorf("model called %d times, want 1", llm.Calls())
	}
	if len(res.Steps) != 1 || res.Steps[0].Tool != "default" {
		t.Errorf("steps = %+v", res.Steps)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	const limit = 3
	tests := []struct {
		name      string
		malformed int
		wantStop  error
	}{
		{"none", 0, nil},
		{"below limit", 2, nil},
		{"at limit", 3, nil},
		{"above limit", 4, ErrParseLimit},
		{"far above limit", 8, ErrParseLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var script []string
			for i := 0; i < tt.malformed; i++ {
				script = append(script, "Acho que a resposta é sim.")
			}
			script = append(script, "Thought: Eu sei qual deve ser a resposta\nFinal Answer: Bem-vindo!")
			llm := testutil.NewScriptedProvider(script...)
			r := newRouter(llm, f.catalog, Options{MaxParseErrors: limit})

			res, err := r.Run(context.Background(), "Oi", model.NewHistory())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !errors.Is(res.Stop, tt.wantStop) {
				t.Errorf("Stop = %v, want %v", res.Stop, tt.wantStop)
			}

			if tt.wantStop == nil {
				if res.Answer != "Bem-vindo!" {
					t.Errorf("answer = %q", res.Answer)
				}
				if llm.Calls() != tt.malformed+1 {
					t.Errorf("model called %d times, want %d", llm.Calls(), tt.malformed+1)
				}
				return
			}

			if res.Answer != tools.Apology {
				t.Errorf("answer = %q, want apology", res.Answer)
			}
			if llm.Calls() != limit+1 {
				t.Errorf("model called %d times, want %d", llm.Calls(), limit+1)
			}
		})
	}
}

func TestParseErrorIsFedBack(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedProvider("resposta solta", "Final Answer: ok")
	r := newRouter(llm, f.catalog, Options{MaxParseErrors: DefaultMaxParseErrors})

	if _, err := r.Run(context.Background(), "Oi", model.NewHistory()); err != nil {
		t.Fatal(err)
	}
	second := llm.Prompt(1)
	if !strings.Contains(second, "resposta solta\nObservation: Formato inválido (missing 'Action:' after 'Thought:')") {
		t.Errorf("scratchpad missing parse error:\n%s", second)
	}
	if !strings.HasSuffix(second, "\nThought: ") {
		t.Errorf("scratchpad must end with Thought prompt:\n%q", second[len(second)-40:])
	}
}

func TestUnknownToolBecomesObservation(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedProvider(
		"Action: rag\nAction Input: círculos",
		"Action: rag_tool\nAction Input: círculos",
		"Thought: Eu sei qual deve ser a resposta\nFinal Answer: São as áreas da empresa.",
	)
	r := newRouter(llm, f.catalog, Options{})

	res, err := r.Run(context.Background(), "O que são os círculos?", model.NewHistory())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != "São as áreas da empresa." {
		t.Errorf("answer = %q", res.Answer)
	}

	want := "rag não é uma ferramenta válida, tente uma de [rag_tool, google_search, create_event, default]."
	if res.Steps[0].Observation != want {
		t.Errorf("observation = %q", res.Steps[0].Observation)
	}
	if !strings.Contains(llm.Prompt(1), "Action Input: círculos\nObservation: "+want+"\nThought: ") {
		t.Errorf("second prompt missing unknown-tool observation:\n%s", llm.Prompt(1))
	}
	if !strings.Contains(llm.Prompt(2), "Observation: Os círculos são as áreas da empresa.\nThought: ") {
		t.Errorf("third prompt missing tool observation:\n%s", llm.Prompt(2))
	}
	if f.rag.calls() != 1 || f.rag.inputs[0] != "círculos" {
		t.Errorf("rag inputs = %q", f.rag.inputs)
	}
}

func TestIterationLimit(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedProvider("Action: google_search\nAction Input: jira")
	r := newRouter(llm, f.catalog, Options{MaxIterations: 3})

	res, err := r.Run(context.Background(), "Como instalo o Jira?", model.NewHistory())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != tools.Apology || !errors.Is(res.Stop, ErrIterationLimit) {
		t.Errorf("res = %+v", res)
	}
	if f.search.calls() != 3 {
		t.Errorf("search called %d times, want 3", f.search.calls())
	}
}

func TestProviderErrorIsReturned(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedReplies(testutil.Reply{Err: errors.New("rate limited")})
	r := newRouter(llm, f.catalog, Options{})

	_, err := r.Run(context.Background(), "Oi", model.NewHistory())
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := testutil.NewScriptedProvider("Final Answer: x")
	_, err := newRouter(llm, f.catalog, Options{}).Run(ctx, "Oi", model.NewHistory())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if llm.Calls() != 0 {
		t.Errorf("model called %d times", llm.Calls())
	}
}

func TestNativeToolCalls(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedReplies(
		testutil.Reply{ToolCalls: []model.ToolCall{{
			ID:   "call_1",
			Name: "create_event",
			Arguments: map[string]any{
				"summary":    "Reunião",
				"start_time": "2024-07-05T10:00:00",
				"end_time":   "2024-07-05T11:00:00",
			},
		}}},
		testutil.Reply{Text: "Final Answer: Evento criado com sucesso."},
	)
	r := newRouter(llm, f.catalog, Options{NativeTools: true})

	res, err := r.Run(context.Background(), "Marque uma reunião amanhã às 10h", model.NewHistory())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Answer != "Evento criado com sucesso." {
		t.Errorf("answer = %q", res.Answer)
	}
	if len(llm.Tools(0)) != 4 {
		t.Errorf("offered %d tools, want 4", len(llm.Tools(0)))
	}
	if f.calendar.calls() != 1 {
		t.Fatalf("calendar called %d times", f.calendar.calls())
	}
	wantInput := `{"end_time":"2024-07-05T11:00:00","start_time":"2024-07-05T10:00:00","summary":"Reunião"}`
	if f.calendar.inputs[0] != wantInput {
		t.Errorf("input = %s", f.calendar.inputs[0])
	}
	if !strings.Contains(llm.Prompt(1), "Action: create_event\nAction Input: "+wantInput+"\nObservation: Event created") {
		t.Errorf("scratchpad missing native call:\n%s", llm.Prompt(1))
	}
}

func TestPromptContents(t *testing.T) {
	f := newFixture(t)
	llm := testutil.NewScriptedProvider("Final Answer: ok")
	r := newRouter(llm, f.catalog, Options{})

	history := model.NewHistory()
	history.Append(model.SpeakerUser, "Oi")
	history.Append(model.SpeakerAgent, "Como posso ajudar você hoje?")

	if _, err := r.Run(context.Background(), "Marque um almoço {input} amanhã", history); err != nil {
		t.Fatal(err)
	}
	prompt := llm.Prompt(0)

	for _, want := range []string{
		"rag_tool: ferramenta rag_tool\ngoogle_search: ferramenta google_search",
		"escolha uma tool entre as disponíveis: rag_tool, google_search, create_event, default",
		"Histórico de conversa:\nUser: Oi\nAgent: Como posso ajudar você hoje?",
		"New input: Marque um almoço {input} amanhã",
		"use 2024-07-04T06:30:00-03:00 (quinta-feira)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if history.Len() != 2 {
		t.Errorf("router mutated history: %d turns", history.Len())
	}
}
