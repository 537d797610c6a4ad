package workflow

import (
	"context"
	"strings"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/internal/state"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// Engine bundles the planner, agent creator, executor, and feedback
// processor behind the operations the CLI drives.
type Engine struct {
	store    *Store
	planner  *Planner
	creator  *AgentCreator
	executor *Executor
	feedback *FeedbackProcessor
	logger   *DebugLogger
}

// NewEngine wires an engine from its collaborators. history may be nil.
func NewEngine(o oracle.Completer, store *Store, resolver *registry.Resolver, history *state.DB, maxIterations int) *Engine {
	executor := NewExecutor(store, resolver, history, maxIterations)
	return &Engine{
		store:    store,
		planner:  NewPlanner(o, store),
		creator:  NewAgentCreator(resolver, store),
		executor: executor,
		feedback: NewFeedbackProcessor(o, store, executor, history),
		logger:   NopLogger(),
	}
}

// SetDebugLogger replaces the engine's debug logger. A nil logger
// disables tracing.
func (e *Engine) SetDebugLogger(l *DebugLogger) {
	if l == nil {
		l = NopLogger()
	}
	e.logger = l
}

// Store returns the engine's workflow store.
func (e *Engine) Store() *Store { return e.store }

// Run creates a workflow for the goal and drives it through planning,
// agent creation, and execution. The name defaults to the first words of
// the goal when empty.
func (e *Engine) Run(ctx context.Context, name, goal string) (*models.Workflow, *Summary, error) {
	if name == "" {
		name = goalName(goal)
	}

	w, err := e.store.Create(name, goal)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Log("workflow %s created for goal %q", w.ID, goal)

	if err := e.planner.Plan(ctx, w); err != nil {
		e.logger.Log("workflow %s planning failed: %v", w.ID, err)
		return w, nil, err
	}
	e.logger.Log("workflow %s planned: %d tasks, sequence %v", w.ID, len(w.Tasks), w.WorkflowSequence)

	if _, err := e.creator.CreateAgents(ctx, w); err != nil {
		e.logger.Log("workflow %s agent creation failed: %v", w.ID, err)
		return w, nil, err
	}

	summary, err := e.executor.Execute(ctx, w)
	if err != nil {
		e.logger.Log("workflow %s execution failed: %v", w.ID, err)
		return w, nil, err
	}
	e.logger.Log("workflow %s finished with status %s", w.ID, w.Status)
	return w, summary, nil
}

// Feedback loads a workflow, applies user feedback, and re-executes it.
func (e *Engine) Feedback(ctx context.Context, workflowID, feedback string) (*models.Workflow, *UpdatePlan, error) {
	w, err := e.store.Load(workflowID)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Log("workflow %s feedback received: %q", w.ID, feedback)
	plan, err := e.feedback.Process(ctx, w, feedback)
	if err != nil {
		e.logger.Log("workflow %s feedback failed: %v", w.ID, err)
		return w, nil, err
	}
	e.logger.Log("workflow %s feedback applied: %d resets, %d new tasks, status %s",
		w.ID, len(plan.TasksToUpdate), len(plan.NewTasks), w.Status)
	return w, plan, nil
}

// goalName derives a short workflow name from the goal text.
func goalName(goal string) string {
	words := strings.Fields(goal)
	if len(words) > 5 {
		words = words[:5]
	}
	if len(words) == 0 {
		return "workflow"
	}
	return strings.Join(words, " ")
}
