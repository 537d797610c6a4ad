package models

// TaskStatus represents the current state of a task within a workflow run.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not run yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task raised an error during execution.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusSkipped indicates the task was skipped due to an unmet dependency.
	TaskStatusSkipped TaskStatus = "skipped"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// Task is one unit of work inside a workflow. Tasks are immutable once
// planned, except for status changes and feedback-driven resets.
type Task struct {
	// ID is unique within the owning workflow.
	ID string `json:"id"`
	// Name is the short human-readable task name.
	Name string `json:"name"`
	// Description explains what the task should accomplish.
	Description string `json:"description,omitempty"`
	// AssignedTo names the role responsible for this task.
	AssignedTo string `json:"assigned_to"`
	// DependsOn lists task IDs that must complete before this task runs.
	DependsOn []string `json:"depends_on,omitempty"`
	// ExpectedOutput describes the deliverable, used to guide the task prompt.
	ExpectedOutput string `json:"expected_output,omitempty"`
	// Status is the current execution state.
	Status TaskStatus `json:"status"`
}

// Role is a planning-time specification of a specialist the workflow needs.
// Roles are bound to concrete agents during agent creation.
type Role struct {
	// Role is the role name as produced by the planner.
	Role string `json:"role"`
	// Description summarizes what the role does.
	Description string `json:"description,omitempty"`
	// Capabilities lists the skill tags the role requires.
	Capabilities []string `json:"capabilities,omitempty"`
	// Responsibilities lists the duties assigned to the role.
	Responsibilities []string `json:"responsibilities,omitempty"`
}
