package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/result"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// Planner turns a free-text goal into a validated task graph.
type Planner struct {
	oracle oracle.Completer
	store  *Store
}

// NewPlanner creates a planner persisting through the given store.
func NewPlanner(o oracle.Completer, store *Store) *Planner {
	return &Planner{oracle: o, store: store}
}

// plan is the JSON shape the oracle is instructed to emit.
type plan struct {
	Roles            []models.Role  `json:"roles"`
	Tasks            []*models.Task `json:"tasks"`
	WorkflowSequence []string       `json:"workflow_sequence"`
	SuccessCriteria  []string       `json:"success_criteria"`
}

// Plan asks the oracle to decompose the workflow's goal into roles, tasks,
// and an execution sequence, then writes the validated plan into the
// workflow and advances it to agent creation. On any failure the workflow
// is left unmodified and a PlanningError is returned.
func (p *Planner) Plan(ctx context.Context, w *models.Workflow) error {
	log.Printf("[planner] planning workflow %s", w.ID)

	completion, err := p.oracle.Complete(ctx, planningPrompt(w.Goal))
	if err != nil {
		return &PlanningError{Stage: "workflow", Err: err}
	}

	var pl plan
	if err := result.ExtractObject(completion, &pl); err != nil {
		return &PlanningError{Stage: "workflow", Err: err}
	}
	if len(pl.Tasks) == 0 || len(pl.WorkflowSequence) == 0 {
		return &PlanningError{Stage: "workflow", Err: fmt.Errorf("plan has no tasks")}
	}

	for _, t := range pl.Tasks {
		if t.Status == "" {
			t.Status = models.TaskStatusPending
		}
	}
	if err := validateSequence(pl.Tasks, pl.WorkflowSequence); err != nil {
		return &PlanningError{Stage: "workflow", Err: err}
	}

	w.Roles = pl.Roles
	w.Tasks = pl.Tasks
	w.WorkflowSequence = pl.WorkflowSequence
	w.SuccessCriteria = pl.SuccessCriteria
	w.Status = models.WorkflowStatusAgentCreation
	w.Touch()

	if err := p.store.Save(w); err != nil {
		return err
	}
	log.Printf("[planner] plan for %s: %d roles, %d tasks", w.ID, len(w.Roles), len(w.Tasks))
	return nil
}

// validateSequence checks that the execution sequence is a valid
// topological order of the dependency edges: every sequenced id names a
// known task, and every dependency of a sequenced task appears earlier in
// the sequence.
func validateSequence(tasks []*models.Task, sequence []string) error {
	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	position := make(map[string]int, len(sequence))
	for i, id := range sequence {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("sequence references unknown task %q", id)
		}
		if _, dup := position[id]; dup {
			return fmt.Errorf("task %q appears twice in sequence", id)
		}
		position[id] = i
	}

	for _, id := range sequence {
		for _, dep := range byID[id].DependsOn {
			depPos, ok := position[dep]
			if !ok {
				return fmt.Errorf("task %q depends on unsequenced task %q", id, dep)
			}
			if depPos >= position[id] {
				return fmt.Errorf("task %q runs before its dependency %q", id, dep)
			}
		}
	}
	return nil
}

func planningPrompt(goal string) string {
	return fmt.Sprintf(`You are a project manager planning a complex workflow. The goal is:

%s

Please create a comprehensive workflow plan with the following elements:

1. Required agent roles (3-6 specialized agents)
2. Tasks for each agent role
3. Task dependencies and sequence
4. Data sharing requirements
5. Success criteria

Format your response as a valid JSON object with the following structure:
{
    "roles": [
        {
            "role": "role_name",
            "description": "Description of role",
            "capabilities": ["capability1", "capability2"],
            "responsibilities": ["responsibility1", "responsibility2"]
        }
    ],
    "tasks": [
        {
            "id": "task_1",
            "name": "Task name",
            "description": "Task description",
            "assigned_to": "role_name",
            "depends_on": ["task_id_1", "task_id_2"],
            "expected_output": "Description of expected output"
        }
    ],
    "workflow_sequence": ["task_1", "task_2", "task_3"],
    "success_criteria": ["criterion1", "criterion2"]
}

Make sure the workflow is logically structured and will accomplish the goal.
The workflow_sequence must list every task exactly once, with each task
appearing after all of its dependencies.`, goal)
}
