package agent

import (
	"context"
	"fmt"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
)

// Worker is the general-purpose task execution agent. It reasons about the
// approach first, then produces the actual response.
type Worker struct {
	Core
}

// NewWorker creates the builtin worker agent.
func NewWorker(o oracle.Completer, tools *tool.Registry) *Worker {
	return &Worker{Core: NewCore("worker_agent", o, tools)}
}

// Think analyzes the task and returns an execution strategy.
func (w *Worker) Think(ctx context.Context, task string) (string, error) {
	prompt := fmt.Sprintf(
		"You are an expert task executor. Analyze the following task and determine "+
			"the most effective approach to complete it successfully.\n\n"+
			"Task: %s\n\nYour analysis:", task)
	return w.Complete(ctx, prompt)
}

// Act executes the given task.
func (w *Worker) Act(ctx context.Context, task string) (string, error) {
	// The analysis primes the approach; only the final response is returned.
	if _, err := w.Think(ctx, task); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"You are a skilled assistant tasked with completing the following request. "+
			"Provide a thoughtful, helpful, and accurate response.\n\n"+
			"Request: %s\n\nYour response:", task)
	return w.Complete(ctx, prompt)
}
