package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/result"
	"github.com/aetherflow-ai/aetherflow/internal/state"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// UpdatePlan is the oracle's answer to a round of user feedback: which
// tasks to re-run and which new tasks to append.
type UpdatePlan struct {
	Analysis      string         `json:"analysis"`
	ChangesNeeded []string       `json:"changes_needed"`
	TasksToUpdate []string       `json:"tasks_to_update"`
	NewTasks      []*models.Task `json:"new_tasks"`
}

// FeedbackProcessor mutates a workflow's task graph from user feedback and
// re-executes it.
type FeedbackProcessor struct {
	oracle   oracle.Completer
	store    *Store
	executor *Executor
	history  *state.DB
}

// NewFeedbackProcessor creates a feedback processor. history may be nil.
func NewFeedbackProcessor(o oracle.Completer, store *Store, executor *Executor, history *state.DB) *FeedbackProcessor {
	return &FeedbackProcessor{oracle: o, store: store, executor: executor, history: history}
}

// Process asks the oracle what the feedback implies, appends any new tasks,
// resets the named tasks to pending, records the feedback, and re-executes
// the workflow when anything changed. A response that cannot be reduced to
// an update plan returns a PlanningError and leaves the workflow untouched.
func (f *FeedbackProcessor) Process(ctx context.Context, w *models.Workflow, feedback string) (*UpdatePlan, error) {
	log.Printf("[feedback] processing feedback for workflow %s", w.ID)

	completion, err := f.oracle.Complete(ctx, feedbackPrompt(w, feedback))
	if err != nil {
		return nil, &PlanningError{Stage: "feedback", Err: err}
	}

	var plan UpdatePlan
	if err := result.ExtractObject(completion, &plan); err != nil {
		return nil, &PlanningError{Stage: "feedback", Err: err}
	}

	for _, task := range plan.NewTasks {
		if task.ID == "" {
			return nil, &PlanningError{Stage: "feedback", Err: fmt.Errorf("new task missing id")}
		}
		if w.Task(task.ID) != nil {
			return nil, &PlanningError{Stage: "feedback", Err: fmt.Errorf("new task %q already exists", task.ID)}
		}
		task.Status = models.TaskStatusPending
		w.Tasks = append(w.Tasks, task)
		w.WorkflowSequence = append(w.WorkflowSequence, task.ID)
	}

	for _, taskID := range plan.TasksToUpdate {
		task := w.Task(taskID)
		if task == nil {
			log.Printf("[feedback] task %s named in update plan not found", taskID)
			continue
		}
		task.Status = models.TaskStatusPending
	}

	entry := models.FeedbackEntry{
		Feedback:  feedback,
		Analysis:  plan.Analysis,
		Timestamp: time.Now().UTC(),
	}
	w.FeedbackHistory = append(w.FeedbackHistory, entry)
	if f.history != nil {
		if err := f.history.RecordFeedback(w.ID, entry); err != nil {
			log.Printf("[feedback] warning: failed to record feedback history: %v", err)
		}
	}

	w.Status = models.WorkflowStatusFeedbackExecution
	w.Touch()
	if err := f.store.Save(w); err != nil {
		return nil, err
	}

	if len(plan.TasksToUpdate) > 0 || len(plan.NewTasks) > 0 {
		if _, err := f.executor.Execute(ctx, w); err != nil {
			return &plan, err
		}
	}
	return &plan, nil
}

func feedbackPrompt(w *models.Workflow, feedback string) string {
	artifactsJSON, err := json.MarshalIndent(w.Artifacts, "", "  ")
	if err != nil {
		artifactsJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are analyzing user feedback for a workflow project with the goal:

%s

Current project artifacts:
%s

User feedback:
%s

Please analyze the feedback and create an update plan with the following elements:

1. What changes are needed based on the feedback?
2. Which tasks need to be re-executed?
3. Are any new tasks needed?

Format your response as a valid JSON object with the following structure:
{
    "analysis": "Brief analysis of the feedback",
    "changes_needed": ["change1", "change2"],
    "tasks_to_update": ["task_id_1", "task_id_2"],
    "new_tasks": [
        {
            "id": "new_task_1",
            "name": "New task name",
            "description": "New task description",
            "assigned_to": "role_name",
            "depends_on": ["task_id_1"],
            "expected_output": "Description of expected output"
        }
    ]
}`, w.Goal, artifactsJSON, feedback)
}
