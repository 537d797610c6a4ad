// Package workflow implements goal planning, agent binding, dependency
// ordered task execution, and feedback driven re-planning. A workflow is
// a goal decomposed into a task graph; tasks run strictly sequentially,
// sharing memory and artifacts through the workflow record.
package workflow

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound is returned when a workflow id has no record on disk.
var ErrWorkflowNotFound = errors.New("workflow not found")

// PlanningError indicates the oracle's planning or feedback response could
// not be reduced to the required shape. The workflow is left unmodified.
type PlanningError struct {
	Stage string
	Err   error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("%s planning failed: %v", e.Stage, e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }

// AgentResolutionError indicates no agent could be found or instantiated
// for a role.
type AgentResolutionError struct {
	Role  string
	Agent string
}

func (e *AgentResolutionError) Error() string {
	if e.Agent != "" {
		return fmt.Sprintf("agent %s for role %q could not be instantiated", e.Agent, e.Role)
	}
	return fmt.Sprintf("no agent bound to role %q", e.Role)
}

// ArtifactWriteError indicates a task's artifact could not be written to
// the workspace.
type ArtifactWriteError struct {
	Filename string
	Err      error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("write artifact %s: %v", e.Filename, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error { return e.Err }

// TaskExecutionError wraps any failure while running a single task. The
// executor converts it into a failed task status; it never aborts the run.
type TaskExecutionError struct {
	TaskID string
	Agent  string
	Err    error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task %s (agent %s) failed: %v", e.TaskID, e.Agent, e.Err)
}

func (e *TaskExecutionError) Unwrap() error { return e.Err }
