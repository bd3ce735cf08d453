// Package mail summarizes unread inbox mail through the Gmail API.
package mail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"daybrief/internal/agent"
	"daybrief/internal/googleauth"
	"daybrief/internal/observability"
)

type Config struct {
	CredsPath  string
	TokenPath  string
	Query      string // base Gmail search query
	MaxResults int
}

type Tool struct {
	cfg Config
	log *observability.Logger
}

func New(cfg Config) *Tool {
	if cfg.Query == "" {
		cfg.Query = "is:unread in:inbox newer_than:2d"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 25
	}
	return &Tool{cfg: cfg, log: observability.Component("tools.mail")}
}

func (t *Tool) Name() string { return "mail" }

// Run lists unread message metadata and condenses it into one line. All
// Gmail failures degrade to a friendly string so the prompt still answers.
func (t *Tool) Run(ctx context.Context, req agent.Request) (string, error) {
	query := queryFor(t.cfg.Query, req.Prompt)

	httpClient, err := googleauth.Client(ctx, t.cfg.CredsPath, t.cfg.TokenPath, gmail.GmailReadonlyScope)
	if err != nil {
		t.log.Warn(ctx, "gmail auth failed", observability.AttrErr(err))
		return fmt.Sprintf("Failed to access Gmail API: %v", err), nil
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Sprintf("Failed to access Gmail API: %v", err), nil
	}

	list, err := svc.Users.Messages.List("me").Q(query).MaxResults(int64(t.cfg.MaxResults)).Context(ctx).Do()
	if err != nil {
		t.log.Warn(ctx, "gmail list failed", "query", query, observability.AttrErr(err))
		return fmt.Sprintf("Email summary error: %v", err), nil
	}
	if len(list.Messages) == 0 {
		return "No unread emails 🎉", nil
	}

	meta := make([]*gmail.Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		msg, err := svc.Users.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).Do()
		if err != nil {
			t.log.Warn(ctx, "gmail get failed", "message_id", m.Id, observability.AttrErr(err))
			return fmt.Sprintf("Email summary error: %v", err), nil
		}
		meta = append(meta, msg)
	}

	return summarizeMessages(meta), nil
}

// queryFor tightens the base query when the prompt asks for a specific
// window ("last 24h", "this week").
func queryFor(base, prompt string) string {
	lowered := strings.ToLower(prompt)
	switch {
	case strings.Contains(lowered, "24h") || strings.Contains(lowered, "day"):
		return "is:unread in:inbox newer_than:1d"
	case strings.Contains(lowered, "week") || strings.Contains(lowered, "7 days"):
		return "is:unread in:inbox newer_than:7d"
	default:
		return base
	}
}
