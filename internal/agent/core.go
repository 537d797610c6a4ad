package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
)

// Core is the base every concrete agent embeds: a name, the shared oracle,
// and an optional tool registry.
type Core struct {
	name   string
	oracle oracle.Completer
	tools  *tool.Registry
}

// NewCore creates an agent core bound to the shared oracle. tools may be
// nil for agents that never invoke tools.
func NewCore(name string, o oracle.Completer, tools *tool.Registry) Core {
	return Core{name: name, oracle: o, tools: tools}
}

// Name returns the agent's registry name.
func (c *Core) Name() string { return c.name }

// Complete runs one oracle completion.
func (c *Core) Complete(ctx context.Context, prompt string) (string, error) {
	if c.oracle == nil {
		return "", fmt.Errorf("agent %s: no oracle configured", c.name)
	}
	return c.oracle.Complete(ctx, prompt)
}

// UseTool invokes a registered tool by name.
func (c *Core) UseTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if c.tools == nil {
		return nil, fmt.Errorf("agent %s: no tools configured", c.name)
	}
	return c.tools.Run(ctx, name, args)
}

// GenerateFinalResponse completes a prompt and reports the elapsed time.
// An empty prompt is rejected before reaching the oracle.
func (c *Core) GenerateFinalResponse(ctx context.Context, prompt string) (string, time.Duration, error) {
	if len(prompt) == 0 {
		return "", 0, fmt.Errorf("agent %s: empty prompt", c.name)
	}

	start := time.Now()
	response, err := c.Complete(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, err
	}
	return response, elapsed, nil
}
