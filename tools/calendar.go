package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"onboard/config"
)

// TimeLayout is the accepted start_time/end_time format (no offset; the
// timezone field gives the zone).
const TimeLayout = "2006-01-02T15:04:05"

const calendarDescription = `Crie um evento no Google Calendar fornecendo os detalhes do evento como resumo, localização, descrição, hora de início, hora de término e fuso horário.
Essa função deve ser chamada quando o usuário quiser marcar um evento, como reunião, almoço, etc. Leve em consideração a data de hoje  para marcar o evento.
Exemplo a função deve ser chamada: "summary": "Reunião de Marketing", "location": "Sala de Reuniões 1", "description": "Reunião para discutir estratégias de marketing.", "start_time": "2024-07-05T10:00:00", "end_time": "2024-07-05T11:00:00", "timezone": "America/Sao_Paulo".
E depois retornar que o evento foi criado com sucesso. Monte uma resposta final com a informação se o evento foi criado com sucesso ou não.
Lembre-se de consultar o histórico de conversas para entender se a pergunta e considerar se está é a ferramenta`

// EventRequest is a validated calendar event. Start is strictly before End
// and both are expressed in Timezone.
type EventRequest struct {
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
}

// EventCreator creates events in a calendar and returns the event link.
type EventCreator interface {
	CreateEvent(ctx context.Context, req EventRequest) (string, error)
}

// ParseEventRequest decodes a JSON object into an EventRequest. Failures are
// *ToolError values naming the offending field. An absent timezone falls back
// to defaultTimezone.
func ParseEventRequest(input, defaultTimezone string) (EventRequest, error) {
	var raw any
	if err := json.Unmarshal([]byte(stripFences(input)), &raw); err != nil {
		return EventRequest{}, &ToolError{Kind: KindParse, Message: "input is not valid JSON", Err: err}
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return EventRequest{}, &ToolError{Kind: KindParse, Message: "input should be a JSON object"}
	}

	var req EventRequest
	var err error

	if req.Summary, err = stringField(fields, "summary", true); err != nil {
		return EventRequest{}, err
	}
	if req.Location, err = stringField(fields, "location", true); err != nil {
		return EventRequest{}, err
	}
	if req.Description, err = stringField(fields, "description", true); err != nil {
		return EventRequest{}, err
	}

	if req.Timezone, err = stringField(fields, "timezone", false); err != nil {
		return EventRequest{}, err
	}
	if req.Timezone == "" {
		req.Timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return EventRequest{}, &ToolError{Kind: KindValidation, Field: "timezone", Message: fmt.Sprintf("unknown timezone %q", req.Timezone)}
	}

	if req.Start, err = timeField(fields, "start_time", loc); err != nil {
		return EventRequest{}, err
	}
	if req.End, err = timeField(fields, "end_time", loc); err != nil {
		return EventRequest{}, err
	}
	if !req.Start.Before(req.End) {
		return EventRequest{}, &ToolError{Kind: KindValidation, Field: "end_time", Message: "end_time must be after start_time"}
	}

	return req, nil
}

func stringField(fields map[string]any, name string, required bool) (string, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		if required {
			return "", &ToolError{Kind: KindValidation, Field: name, Message: "missing required field"}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ToolError{Kind: KindValidation, Field: name, Message: "must be a string"}
	}
	return strings.TrimSpace(s), nil
}

func timeField(fields map[string]any, name string, loc *time.Location) (time.Time, error) {
	s, err := stringField(fields, name, true)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(TimeLayout, s, loc)
	if err != nil {
		return time.Time{}, &ToolError{Kind: KindFormat, Field: name, Message: fmt.Sprintf("%q does not match YYYY-MM-DDTHH:MM:SS", s)}
	}
	return t, nil
}

// stripFences removes a surrounding Markdown code fence, which models often
// put around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// CalendarTool is "create_event".
type CalendarTool struct {
	creator         EventCreator
	defaultTimezone string
}

func NewCalendarTool(creator EventCreator, defaultTimezone string) *CalendarTool {
	if defaultTimezone == "" {
		defaultTimezone = "America/Sao_Paulo"
	}
	return &CalendarTool{creator: creator, defaultTimezone: defaultTimezone}
}

func (t *CalendarTool) Name() string        { return "create_event" }
func (t *CalendarTool) Description() string { return calendarDescription }

func (t *CalendarTool) Spec() mcptypes.Tool {
	return mcptypes.NewTool(t.Name(),
		mcptypes.WithDescription(t.Description()),
		mcptypes.WithString("summary", mcptypes.Required(), mcptypes.Description("Título do evento")),
		mcptypes.WithString("location", mcptypes.Required(), mcptypes.Description("Local do evento")),
		mcptypes.WithString("description", mcptypes.Required(), mcptypes.Description("Descrição do evento")),
		mcptypes.WithString("start_time", mcptypes.Required(), mcptypes.Description("Início no formato YYYY-MM-DDTHH:MM:SS")),
		mcptypes.WithString("end_time", mcptypes.Required(), mcptypes.Description("Término no formato YYYY-MM-DDTHH:MM:SS")),
		mcptypes.WithString("timezone", mcptypes.Description("Fuso horário IANA, padrão "+t.defaultTimezone)),
	)
}

func (t *CalendarTool) Call(ctx context.Context, input string) string {
	req, err := ParseEventRequest(input, t.defaultTimezone)
	if err != nil {
		config.Debugf("[Calendar] rejected input: %v", err)
		return Observation(err)
	}

	link, err := t.creator.CreateEvent(ctx, req)
	if err != nil {
		config.Debugf("[Calendar] create failed: %v", err)
		return Observation(&ToolError{Kind: KindProvider, Message: "failed to create event", Err: err})
	}

	config.Debugf("[Calendar] created %q at %s", req.Summary, link)
	return "Event created: " + link
}
