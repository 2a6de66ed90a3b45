// Package agent routes each user question to one of the catalog tools by
// running a ReAct loop against the language model: the model thinks, picks a
// tool, sees its output and repeats until it gives a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"onboard/config"
	"onboard/model"
	"onboard/tools"
)

const (
	DefaultMaxIterations  = 15
	DefaultMaxParseErrors = 3
)

var (
	// ErrParseLimit: the model produced more malformed outputs than allowed.
	ErrParseLimit = errors.New("too many malformed model outputs")
	// ErrIterationLimit: the model kept calling tools without answering.
	ErrIterationLimit = errors.New("iteration limit reached")
)

// Options bounds the loop and sets the clock used in the prompt.
type Options struct {
	MaxIterations int
	// MaxParseErrors is how many malformed outputs are fed back before giving
	// up. Zero means the first one ends the turn.
	MaxParseErrors int
	Location       *time.Location
	// NativeTools also offers the catalog through the provider's
	// function-calling API.
	NativeTools bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Step is one routing decision of a turn. Steps live only for the turn.
type Step struct {
	Tool        string
	Input       string
	Observation string
	Log         string
	ParseError  bool
}

// Result is the outcome of a turn. Stop is nil when the model answered and
// names the limit hit when the answer fell back to the apology.
type Result struct {
	Answer string
	Steps  []Step
	Stop   error
}

// Router runs the loop for one session's catalog.
type Router struct {
	provider model.Provider
	catalog  *tools.Catalog
	opts     Options
}

func NewRouter(provider model.Provider, catalog *tools.Catalog, opts Options) *Router {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxParseErrors < 0 {
		opts.MaxParseErrors = DefaultMaxParseErrors
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Router{provider: provider, catalog: catalog, opts: opts}
}

// Run answers query given the prior conversation. history is only read.
// Tool failures, unknown tools and malformed outputs are fed back to the
// model; an error is returned only when the model call itself fails or ctx
// is done.
func (r *Router) Run(ctx context.Context, query string, history *model.History) (Result, error) {
	var res Result
	var scratchpad strings.Builder
	parseErrors := 0
	now := r.opts.Now().In(r.opts.Location)

	for i := 0; i < r.opts.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		prompt := RenderPrompt(PromptData{
			Catalog:    r.catalog,
			History:    history,
			Input:      query,
			Now:        now,
			Scratchpad: scratchpad.String(),
		})

		decision, raw, err := r.decide(ctx, prompt)
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				return res, fmt.Errorf("failed to query model: %w", err)
			}

			parseErrors++
			config.Debugf("[Router] step %d: malformed output (%d/%d): %s", i, parseErrors, r.opts.MaxParseErrors, perr.Reason)
			if parseErrors > r.opts.MaxParseErrors {
				res.Answer = tools.Apology
				res.Stop = ErrParseLimit
				return res, nil
			}

			obs := invalidFormatObservation(perr)
			res.Steps = append(res.Steps, Step{Input: raw, Observation: obs, Log: raw, ParseError: true})
			appendStep(&scratchpad, TruncateObservation(raw), obs)
			continue
		}

		switch d := decision.(type) {
		case FinalDecision:
			config.Debugf("[Router] step %d: final answer", i)
			res.Answer = d.Answer
			return res, nil

		case ActionDecision:
			step := Step{Tool: d.Tool, Input: d.Input, Log: d.Log}
			tool, err := r.catalog.Resolve(d.Tool)
			var toolErr *tools.ToolError
			if errors.As(err, &toolErr) {
				// The model sees the list of valid names, not an error
				step.Observation = toolErr.Message
				config.Debugf("[Router] step %d: %v", i, toolErr)
			} else {
				start := time.Now()
				step.Observation = tool.Call(ctx, d.Input)
				config.Debugf("[Router] step %d: %s(%q) took %s", i, d.Tool, d.Input, time.Since(start))
			}
			res.Steps = append(res.Steps, step)

			if tool != nil && tools.IsReturnDirect(tool) {
				res.Answer = step.Observation
				return res, nil
			}
			appendStep(&scratchpad, d.Log, step.Observation)
		}
	}

	config.Debugf("[Router] gave up after %d iterations", r.opts.MaxIterations)
	res.Answer = tools.Apology
	res.Stop = ErrIterationLimit
	return res, nil
}

// decide asks the model for the next step. The raw text is returned alongside
// parse errors so it can be replayed to the model.
func (r *Router) decide(ctx context.Context, prompt string) (Decision, string, error) {
	messages := []model.Message{{Role: model.RoleUser, Content: prompt, Timestamp: time.Now()}}

	var sb strings.Builder
	var calls []model.ToolCall
	collect := func(chunk string, toolCalls []model.ToolCall) error {
		sb.WriteString(chunk)
		calls = append(calls, toolCalls...)
		return nil
	}

	var err error
	if r.opts.NativeTools {
		err = r.provider.ChatWithTools(ctx, messages, r.catalog.Specs(), collect)
	} else {
		err = r.provider.Chat(ctx, messages, collect)
	}
	if err != nil {
		return nil, "", err
	}

	text := sb.String()
	if len(calls) > 0 {
		call := calls[0]
		input := tools.InputFromArguments(call.Arguments)
		return ActionDecision{Tool: call.Name, Input: input, Log: formatAction(TruncateObservation(text), call.Name, input)}, text, nil
	}

	d, err := ParseDecision(text)
	return d, text, err
}

func appendStep(sb *strings.Builder, log, observation string) {
	sb.WriteString(log)
	sb.WriteString("\nObservation: ")
	sb.WriteString(observation)
	sb.WriteString("\nThought: ")
}

func invalidFormatObservation(err *ParseError) string {
	return fmt.Sprintf("Formato inválido (%s). Responda com \"Action:\" e \"Action Input:\" ou com \"%s\".", err.Reason, finalAnswerMarker)
}
