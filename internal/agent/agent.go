package agent

import "context"

// Request is one prompt plus the optional hints a caller may attach.
type Request struct {
	Prompt   string `json:"prompt"`
	Timezone string `json:"timezone,omitempty"`
	Place    string `json:"place,omitempty"`
}

// Tool is a capability the router can dispatch a prompt to.
type Tool interface {
	Name() string
	Run(ctx context.Context, req Request) (string, error)
}

// ToolFunc adapts a plain function into a Tool.
type ToolFunc struct {
	ToolName string
	Fn       func(ctx context.Context, req Request) (string, error)
}

func (t ToolFunc) Name() string { return t.ToolName }

func (t ToolFunc) Run(ctx context.Context, req Request) (string, error) {
	return t.Fn(ctx, req)
}
