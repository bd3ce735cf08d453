// Package calendar summarizes today's Google Calendar events.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"daybrief/internal/agent"
	"daybrief/internal/googleauth"
	"daybrief/internal/observability"
)

type Config struct {
	CredsPath      string
	TokenPath      string
	CalendarID     string
	Timezone       string
	LookaheadHours int
}

type Tool struct {
	cfg Config
	log *observability.Logger
}

func New(cfg Config) *Tool {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Helsinki"
	}
	if cfg.LookaheadHours <= 0 {
		cfg.LookaheadHours = 24
	}
	return &Tool{cfg: cfg, log: observability.Component("tools.calendar")}
}

func (t *Tool) Name() string { return "calendar" }

// Run lists events in today's local window and summarizes them. Failures
// degrade to a friendly string; a 403 gets the OAuth-consent hint since that
// is by far its most common cause for a personal deployment.
func (t *Tool) Run(ctx context.Context, req agent.Request) (string, error) {
	tzName := strings.TrimSpace(req.Timezone)
	if tzName == "" {
		tzName = t.cfg.Timezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return fmt.Sprintf("Calendar error: unknown timezone %q", tzName), nil
	}

	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.Add(time.Duration(t.cfg.LookaheadHours) * time.Hour)

	httpClient, err := googleauth.Client(ctx, t.cfg.CredsPath, t.cfg.TokenPath, gcal.CalendarReadonlyScope)
	if err != nil {
		t.log.Warn(ctx, "calendar auth failed", observability.AttrErr(err))
		return fmt.Sprintf("Calendar error: %v", err), nil
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Sprintf("Calendar error: %v", err), nil
	}

	events, err := svc.Events.List(t.cfg.CalendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(100).
		Context(ctx).Do()
	if err != nil {
		t.log.Warn(ctx, "calendar list failed", "calendar_id", t.cfg.CalendarID, observability.AttrErr(err))
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 403 {
			return "Calendar error: access denied (check OAuth consent, add your account as a Test user, " +
				"enable Calendar API, then delete the calendar token cache and retry).", nil
		}
		return fmt.Sprintf("Calendar error: %v", err), nil
	}

	return summarizeEvents(events.Items, loc), nil
}
