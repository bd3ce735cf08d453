package agent

import (
	"context"
	"fmt"
	"testing"
)

func staticTool(name, reply string) Tool {
	return ToolFunc{ToolName: name, Fn: func(_ context.Context, _ Request) (string, error) {
		return reply, nil
	}}
}

func testRouter(t *testing.T) *Router {
	t.Helper()
	r := NewRouter(DefaultRules(), "tasks")
	r.Register(staticTool("mail", "mail reply"))
	r.Register(staticTool("calendar", "calendar reply"))
	r.Register(staticTool("weather", "weather reply"))
	r.Register(staticTool("tasks", "tasks reply"))
	return r
}

func TestResolve_Defaults(t *testing.T) {
	r := testRouter(t)

	cases := map[string]string{
		"summarize my email":          "mail",
		"what does my SCHEDULE look?": "calendar",
		"plan my day":                 "calendar",
		"how is the weather today":    "weather",
		"add buy milk":                "tasks",
		"":                            "tasks",
	}
	for prompt, want := range cases {
		if got := r.Resolve(prompt); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", prompt, got, want)
		}
	}
}

func TestResolve_RuleOrder(t *testing.T) {
	// "plan my email replies" contains triggers for both mail and calendar;
	// the mail rule comes first so it wins.
	r := testRouter(t)
	if got := r.Resolve("plan my email replies"); got != "mail" {
		t.Fatalf("Resolve = %q, want mail", got)
	}
}

func TestRun_DispatchesToMatchingTool(t *testing.T) {
	r := testRouter(t)
	got, err := r.Run(context.Background(), Request{Prompt: "check the weather"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "weather reply" {
		t.Fatalf("result = %q, want weather reply", got)
	}
}

func TestRun_MissingToolErrors(t *testing.T) {
	r := NewRouter(DefaultRules(), "tasks")
	if _, err := r.Run(context.Background(), Request{Prompt: "anything"}); err == nil {
		t.Fatal("expected error when fallback tool is not registered")
	}
}

func TestRun_ToolErrorPropagates(t *testing.T) {
	r := NewRouter(nil, "boom")
	r.Register(ToolFunc{ToolName: "boom", Fn: func(_ context.Context, _ Request) (string, error) {
		return "", fmt.Errorf("exploded")
	}})
	if _, err := r.Run(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("expected tool error to propagate")
	}
}
