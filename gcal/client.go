package gcal

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"onboard/config"
	"onboard/tools"
)

// Client inserts events into one calendar.
type Client struct {
	creds      CredentialProvider
	calendarID string
	opts       []option.ClientOption
}

// NewClient targets calendarID ("primary" when empty). Extra options are
// passed to the Calendar API client.
func NewClient(creds CredentialProvider, calendarID string, opts ...option.ClientOption) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{creds: creds, calendarID: calendarID, opts: opts}
}

// CreateEvent inserts the event and returns its HTML link.
func (c *Client) CreateEvent(ctx context.Context, req tools.EventRequest) (string, error) {
	ts, release, err := c.creds.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := release(ctx); rerr != nil {
			config.Debugf("[Calendar] release: %v", rerr)
		}
	}()

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create calendar client: %w", err)
	}

	created, err := svc.Events.Insert(c.calendarID, ToEvent(req)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return created.HtmlLink, nil
}

// ToEvent maps a request onto the API type. Times are sent as wall-clock
// values with an explicit time zone.
func ToEvent(req tools.EventRequest) *calendar.Event {
	return &calendar.Event{
		Summary:     req.Summary,
		Location:    req.Location,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(tools.TimeLayout),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(tools.TimeLayout),
			TimeZone: req.Timezone,
		},
	}
}
