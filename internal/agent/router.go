package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"daybrief/internal/observability"
)

// Router selects exactly one tool per prompt: the first rule whose trigger
// matches wins, anything unmatched falls through to the fallback tool.
type Router struct {
	rules    []Rule
	tools    map[string]Tool
	fallback string
	log      *observability.Logger
}

func NewRouter(rules []Rule, fallback string) *Router {
	return &Router{
		rules:    rules,
		fallback: fallback,
		tools:    map[string]Tool{},
		log:      observability.Component("agent.router"),
	}
}

func (r *Router) Register(t Tool) {
	r.tools[t.Name()] = t
	r.log.Info(nil, "tool registered", "tool", t.Name())
}

// Resolve returns the name of the tool a prompt routes to.
func (r *Router) Resolve(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range r.rules {
		for _, p := range rule.Patterns {
			if p.MatchString(lowered) {
				return rule.Tool
			}
		}
	}
	return r.fallback
}

// Run routes the request to the matching tool and returns its result.
func (r *Router) Run(ctx context.Context, req Request) (string, error) {
	name := r.Resolve(req.Prompt)
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("agent: no tool registered for %q", name)
	}

	ctx, span := observability.StartSpan(ctx, "agent.run", attribute.String("tool", name))
	defer span.End()

	start := time.Now()
	r.log.Debug(ctx, "dispatching prompt", "tool", name, "prompt_len", len(req.Prompt))
	result, err := tool.Run(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "tool failed", "tool", name, observability.AttrErr(err))
		return "", err
	}
	r.log.Info(ctx, "tool finished", "tool", name, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
