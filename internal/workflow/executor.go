package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/internal/result"
	"github.com/aetherflow-ai/aetherflow/internal/state"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// DefaultMaxIterations bounds how many sequence entries one execution pass
// will run.
const DefaultMaxIterations = 10

// Executor walks a workflow's task sequence in order, running each task
// with its bound agent and threading memory and artifacts between tasks.
// Failures are isolated at task granularity: one task failing never aborts
// its siblings.
type Executor struct {
	store         *Store
	resolver      *registry.Resolver
	history       *state.DB
	maxIterations int
}

// NewExecutor creates an executor. history may be nil, in which case task
// records are kept only on the workflow itself.
func NewExecutor(store *Store, resolver *registry.Resolver, history *state.DB, maxIterations int) *Executor {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Executor{store: store, resolver: resolver, history: history, maxIterations: maxIterations}
}

// Execute runs the workflow's task sequence. Tasks already completed in a
// previous pass are left untouched, so feedback-driven re-execution only
// runs tasks that were reset to pending or newly appended. The workflow
// ends completed only when every task completed; otherwise partial.
func (e *Executor) Execute(ctx context.Context, w *models.Workflow) (*Summary, error) {
	log.Printf("[executor] executing workflow %s (%d tasks)", w.ID, len(w.Tasks))

	for i, taskID := range w.WorkflowSequence {
		if i >= e.maxIterations {
			log.Printf("[executor] reached maximum iterations (%d), stopping workflow %s", e.maxIterations, w.ID)
			break
		}

		task := w.Task(taskID)
		if task == nil {
			log.Printf("[executor] task %s not found in workflow %s", taskID, w.ID)
			continue
		}
		if task.Status == models.TaskStatusCompleted {
			continue
		}

		if unmet := e.unmetDependency(w, task); unmet != "" {
			log.Printf("[executor] dependencies not met for task %s (waiting on %s), skipping", taskID, unmet)
			task.Status = models.TaskStatusSkipped
			continue
		}

		agentName, err := e.runTask(ctx, w, task)
		if err != nil {
			task.Status = models.TaskStatusFailed
			e.record(w, task.ID, agentName, models.TaskStatusFailed, err.Error())
			if agentName != "" {
				e.updateStats(agentName, false)
			}
			log.Printf("[executor] %v", err)
			continue
		}

		task.Status = models.TaskStatusCompleted
		e.record(w, task.ID, agentName, models.TaskStatusCompleted,
			fmt.Sprintf("Task %s completed by %s", task.ID, agentName))
		e.updateStats(agentName, true)
	}

	w.Status = models.WorkflowStatusCompleted
	for _, task := range w.Tasks {
		if task.Status != models.TaskStatusCompleted {
			w.Status = models.WorkflowStatusPartial
			break
		}
	}
	w.Touch()
	if err := e.store.Save(w); err != nil {
		return nil, err
	}

	return WriteSummary(w)
}

// unmetDependency returns the first dependency id whose task has not
// completed, or "" when the task is runnable.
func (e *Executor) unmetDependency(w *models.Workflow, task *models.Task) string {
	for _, dep := range task.DependsOn {
		depTask := w.Task(dep)
		if depTask == nil || depTask.Status != models.TaskStatusCompleted {
			return dep
		}
	}
	return ""
}

// runTask resolves the task's agent, invokes it, parses the result, and
// merges memory and artifacts into the workflow. It returns the agent name
// even on failure so the caller can attribute the outcome.
func (e *Executor) runTask(ctx context.Context, w *models.Workflow, task *models.Task) (string, error) {
	agentName := w.AgentForRole(task.AssignedTo)
	if agentName == "" {
		return "", &TaskExecutionError{
			TaskID: task.ID,
			Err:    &AgentResolutionError{Role: task.AssignedTo},
		}
	}

	ag, ok := e.resolver.Instantiate(agentName)
	if !ok {
		return agentName, &TaskExecutionError{
			TaskID: task.ID,
			Agent:  agentName,
			Err:    &AgentResolutionError{Role: task.AssignedTo, Agent: agentName},
		}
	}

	log.Printf("[executor] executing task %s with agent %s", task.ID, agentName)

	prompt := taskPrompt(w, task)
	raw, err := ag.Act(ctx, prompt)
	if err != nil {
		return agentName, &TaskExecutionError{TaskID: task.ID, Agent: agentName, Err: err}
	}

	parsed := result.ParseTask(raw)
	w.Memory[task.ID] = parsed.Output

	for _, artifact := range parsed.Artifacts {
		if artifact.Filename == "" {
			log.Printf("[executor] artifact missing filename: %s", artifact.Name)
			continue
		}
		if err := e.writeArtifact(w, task, agentName, artifact); err != nil {
			log.Printf("[executor] %v", err)
		}
	}

	return agentName, nil
}

// writeArtifact stores the artifact content under the workflow workspace
// and appends its metadata to the workflow record.
func (e *Executor) writeArtifact(w *models.Workflow, task *models.Task, agentName string, artifact models.ResultArtifact) error {
	if filepath.IsAbs(artifact.Filename) || strings.Contains(artifact.Filename, "..") {
		return &ArtifactWriteError{
			Filename: artifact.Filename,
			Err:      fmt.Errorf("path escapes workspace"),
		}
	}

	path := filepath.Join(w.Workspace, artifact.Filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &ArtifactWriteError{Filename: artifact.Filename, Err: err}
	}
	if err := os.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
		return &ArtifactWriteError{Filename: artifact.Filename, Err: err}
	}

	w.Artifacts = append(w.Artifacts, models.Artifact{
		Name:        artifact.Name,
		Description: artifact.Description,
		Filename:    artifact.Filename,
		CreatedBy:   agentName,
		CreatedAt:   time.Now().UTC(),
	})
	log.Printf("[executor] saved artifact %s for task %s", artifact.Filename, task.ID)
	return nil
}

// record appends a history entry to the workflow and, when a history store
// is configured, persists it there too.
func (e *Executor) record(w *models.Workflow, taskID, agentName string, status models.TaskStatus, message string) {
	entry := models.HistoryEntry{
		ID:         uuid.New().String(),
		WorkflowID: w.ID,
		TaskID:     taskID,
		Agent:      agentName,
		Timestamp:  time.Now().UTC(),
		Status:     status,
		Message:    message,
	}
	w.History = append(w.History, entry)

	if e.history != nil {
		if err := e.history.RecordTask(entry); err != nil {
			log.Printf("[executor] warning: failed to record task history: %v", err)
		}
	}
}

func (e *Executor) updateStats(agentName string, success bool) {
	if err := e.resolver.Registry().UpdateStats(agentName, success); err != nil {
		log.Printf("[executor] warning: failed to update stats for %s: %v", agentName, err)
	}
}

// taskPrompt renders the full task assignment, including the entire
// current memory map and artifact list. Context is maximized on purpose;
// prompt size grows with workflow length.
func taskPrompt(w *models.Workflow, task *models.Task) string {
	memoryJSON, err := json.MarshalIndent(w.Memory, "", "  ")
	if err != nil {
		memoryJSON = []byte("{}")
	}
	artifactsJSON, err := json.MarshalIndent(w.Artifacts, "", "  ")
	if err != nil {
		artifactsJSON = []byte("[]")
	}

	return fmt.Sprintf(`# Task Assignment: %s

## Task Description
%s

## Expected Output
%s

## Workspace Information
- Working directory: %s

## Available Memory
%s

## Available Artifacts
%s

## Instructions
1. Complete the task based on the description and expected output
2. You can access information from previous tasks using the memory
3. You can create artifacts (files) in the workspace
4. Format your response to include:
   - A summary of what you did
   - Any outputs or results
   - Any artifacts you created

Please focus solely on your assigned task. Structure your response in JSON format with:
{
    "output": {
        "summary": "Summary of what you did",
        "result": "Your task results"
    },
    "artifacts": [
        {
            "name": "artifact_name",
            "description": "Brief description",
            "filename": "filename.ext",
            "content": "The full content of the file"
        }
    ]
}`,
		task.Name, task.Description, task.ExpectedOutput,
		w.Workspace, memoryJSON, artifactsJSON)
}
