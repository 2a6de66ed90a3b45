package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// Decision is what the model chose at one step: an ActionDecision or a
// FinalDecision.
type Decision interface {
	isDecision()
}

// ActionDecision selects a tool. Log is the model text that led to it and is
// replayed in the scratchpad.
type ActionDecision struct {
	Tool  string
	Input string
	Log   string
}

// FinalDecision ends the turn with Answer.
type FinalDecision struct {
	Answer string
	Log    string
}

func (ActionDecision) isDecision() {}
func (FinalDecision) isDecision()  {}

// ParseError is a model output that is neither an action nor a final answer.
type ParseError struct {
	Reason string
	Text   string
}

func (e *ParseError) Error() string {
	return "could not parse model output: " + e.Reason
}

const finalAnswerMarker = "Final Answer:"

var (
	actionPattern      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyPattern  = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	actionInputPattern = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// ParseDecision reads one step of the Thought/Action/Action Input/Final Answer
// protocol. Anything after a line starting with "Observation" is the model
// imagining a tool result and is dropped.
func ParseDecision(text string) (Decision, error) {
	text = TruncateObservation(text)
	hasAnswer := strings.Contains(text, finalAnswerMarker)

	if m := actionPattern.FindStringSubmatch(text); m != nil {
		if hasAnswer {
			return nil, &ParseError{Reason: "found both a final answer and an action", Text: text}
		}
		tool := strings.TrimSpace(m[1])
		if tool == "" {
			return nil, &ParseError{Reason: "empty action", Text: text}
		}
		return ActionDecision{Tool: tool, Input: cleanInput(m[2]), Log: text}, nil
	}

	if hasAnswer {
		parts := strings.Split(text, finalAnswerMarker)
		return FinalDecision{Answer: strings.TrimSpace(parts[len(parts)-1]), Log: text}, nil
	}

	if !actionOnlyPattern.MatchString(text) {
		return nil, &ParseError{Reason: "missing 'Action:' after 'Thought:'", Text: text}
	}
	if !actionInputPattern.MatchString(text) {
		return nil, &ParseError{Reason: "missing 'Action Input:' after 'Action:'", Text: text}
	}
	return nil, &ParseError{Reason: "unrecognized output", Text: text}
}

// TruncateObservation cuts text at the first "\nObservation".
func TruncateObservation(text string) string {
	if i := strings.Index(text, "\nObservation"); i >= 0 {
		return text[:i]
	}
	return text
}

// cleanInput trims whitespace, surrounding quotes and a dangling code fence.
func cleanInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	s = strings.Trim(s, " ")
	return strings.Trim(s, `"`)
}

// formatAction renders a native tool call in the text protocol so the
// scratchpad reads the same either way.
func formatAction(thought, tool, input string) string {
	thought = strings.TrimSpace(thought)
	action := fmt.Sprintf("Action: %s\nAction Input: %s", tool, input)
	if thought == "" {
		return action
	}
	return thought + "\n" + action
}
