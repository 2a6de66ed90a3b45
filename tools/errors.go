package tools

import "fmt"

// ErrorKind classifies tool failures.
type ErrorKind int

const (
	// KindParse: the input is not a JSON object.
	KindParse ErrorKind = iota
	// KindFormat: a field has the wrong format (timestamps).
	KindFormat
	// KindValidation: a field is missing or inconsistent.
	KindValidation
	// KindProvider: the external service failed or rejected the call.
	KindProvider
	// KindUnknownTool: the router picked a name outside the catalog.
	KindUnknownTool
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindFormat:
		return "format error"
	case KindValidation:
		return "validation error"
	case KindProvider:
		return "provider error"
	case KindUnknownTool:
		return "unknown tool"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ToolError is a failure reported back to the router as an observation.
type ToolError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ErrorPrefix starts every observation rendered from an error.
const ErrorPrefix = "Error: "

// Observation renders an error as the text handed back to the router.
func Observation(err error) string {
	return ErrorPrefix + err.Error()
}
