// Package agent defines the agent capability consumed by the workflow
// executor and the task router, plus the builtin agents and the persona
// mechanism used for oracle-synthesized agents.
package agent

import (
	"context"
	"time"
)

// Agent is a named, capability-tagged unit that turns a task description
// into a result using the oracle (and optionally tools).
type Agent interface {
	// Name returns the agent's registry name.
	Name() string
	// Act executes the given task and returns the raw response text.
	// Callers parse the response defensively; Act itself makes no
	// guarantee about its structure.
	Act(ctx context.Context, task string) (string, error)
}

// Thinker is implemented by agents that expose their planning step.
type Thinker interface {
	// Think analyzes a task and returns an execution strategy.
	Think(ctx context.Context, task string) (string, error)
}

// FinalResponder is implemented by agents that can produce a polished
// response directly from a prompt. The executor prefers Act when both
// are available.
type FinalResponder interface {
	// GenerateFinalResponse processes a prompt and returns the response
	// together with the elapsed wall-clock time.
	GenerateFinalResponse(ctx context.Context, prompt string) (string, time.Duration, error)
}
