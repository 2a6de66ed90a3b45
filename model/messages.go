package model

// AnswerMsg carries the final answer of a session turn.
type AnswerMsg struct {
	Query  string
	Answer string
}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type SessionClosedMsg struct {
	Err error
}

type ClipboardMsg struct {
	Err error
}

type FlashTickMsg struct{}
