package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// WorkflowStatus represents the lifecycle stage of a workflow.
type WorkflowStatus string

const (
	// WorkflowStatusInitialized indicates the workflow exists but has no plan yet.
	WorkflowStatusInitialized WorkflowStatus = "initialized"
	// WorkflowStatusAgentCreation indicates planning finished and agents are being bound.
	WorkflowStatusAgentCreation WorkflowStatus = "agent_creation"
	// WorkflowStatusExecution indicates agents are bound and tasks are runnable.
	WorkflowStatusExecution WorkflowStatus = "execution"
	// WorkflowStatusFeedbackExecution indicates a feedback pass is re-running tasks.
	WorkflowStatusFeedbackExecution WorkflowStatus = "feedback_execution"
	// WorkflowStatusCompleted indicates every task completed.
	WorkflowStatusCompleted WorkflowStatus = "completed"
	// WorkflowStatusPartial indicates at least one task failed, was skipped, or never ran.
	WorkflowStatusPartial WorkflowStatus = "partial"
)

// Valid returns true if the status is a known value.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowStatusInitialized, WorkflowStatusAgentCreation, WorkflowStatusExecution,
		WorkflowStatusFeedbackExecution, WorkflowStatusCompleted, WorkflowStatusPartial:
		return true
	default:
		return false
	}
}

// AgentBinding records which registered agent serves a planned role.
type AgentBinding struct {
	// Name is the registry name of the agent (e.g. "designer_agent").
	Name string `json:"name"`
	// Role is the planned role this agent fulfills.
	Role string `json:"role"`
	// Description is the agent's description at binding time.
	Description string `json:"description,omitempty"`
	// Capabilities lists the agent's capability tags at binding time.
	Capabilities []string `json:"capabilities,omitempty"`
	// Responsibilities lists the role's responsibilities.
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// Artifact is the metadata for a file produced by a task. The workflow
// record holds the metadata; the workspace directory holds the content.
type Artifact struct {
	// Name is the artifact's logical name.
	Name string `json:"name"`
	// Description summarizes the artifact.
	Description string `json:"description,omitempty"`
	// Filename is the path relative to the workflow workspace.
	Filename string `json:"filename"`
	// CreatedBy is the name of the agent that produced the artifact.
	CreatedBy string `json:"created_by"`
	// CreatedAt is when the artifact was written.
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackEntry records one round of user feedback against a workflow.
type FeedbackEntry struct {
	// Feedback is the user's feedback text, preserved verbatim.
	Feedback string `json:"feedback"`
	// Analysis is the oracle's summary of what the feedback implies.
	Analysis string `json:"analysis,omitempty"`
	// Timestamp is when the feedback was processed.
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry records the outcome of one task execution attempt.
type HistoryEntry struct {
	// ID uniquely identifies the history entry.
	ID string `json:"id"`
	// WorkflowID is the owning workflow.
	WorkflowID string `json:"workflow_id"`
	// TaskID is the task that ran.
	TaskID string `json:"task_id"`
	// Agent is the name of the agent that ran the task.
	Agent string `json:"agent"`
	// Timestamp is when the attempt finished.
	Timestamp time.Time `json:"timestamp"`
	// Status is the resulting task status.
	Status TaskStatus `json:"status"`
	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}

// Workflow is the root aggregate: a goal, its decomposed task graph,
// execution state, shared memory, and produced artifacts.
type Workflow struct {
	// ID is unique and filesystem-safe, derived from the name and creation time.
	ID string `json:"id"`
	// Name is the human-readable project name.
	Name string `json:"name"`
	// Goal is the free-text objective the workflow pursues.
	Goal string `json:"goal"`
	// Status is the lifecycle stage.
	Status WorkflowStatus `json:"status"`
	// CreatedAt is when the workflow was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is bumped on every mutation.
	UpdatedAt time.Time `json:"updated_at"`
	// Workspace is the absolute path to the workflow's private storage area.
	Workspace string `json:"workspace"`
	// Roles are the planner's role specifications.
	Roles []Role `json:"roles,omitempty"`
	// Tasks is the full task list, planned plus feedback-appended.
	Tasks []*Task `json:"tasks,omitempty"`
	// WorkflowSequence is the execution order of task IDs. It is distinct
	// from the dependency edges carried on each task.
	WorkflowSequence []string `json:"workflow_sequence,omitempty"`
	// SuccessCriteria are the planner's completion criteria.
	SuccessCriteria []string `json:"success_criteria,omitempty"`
	// Agents are the role-to-agent bindings established during agent creation.
	Agents []AgentBinding `json:"agents,omitempty"`
	// Artifacts is the metadata for every file produced so far.
	Artifacts []Artifact `json:"artifacts,omitempty"`
	// Memory maps task ID to that task's structured output. It accumulates
	// for the workflow's lifetime and is never pruned.
	Memory map[string]TaskOutput `json:"memory,omitempty"`
	// FeedbackHistory records every processed feedback round.
	FeedbackHistory []FeedbackEntry `json:"feedback_history,omitempty"`
	// History records every task execution attempt.
	History []HistoryEntry `json:"history,omitempty"`
}

// Task returns the task with the given ID, or nil if absent.
func (w *Workflow) Task(id string) *Task {
	for _, t := range w.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AgentForRole returns the bound agent name for a role, or "" if unbound.
func (w *Workflow) AgentForRole(role string) string {
	for _, b := range w.Agents {
		if b.Role == role {
			return b.Name
		}
	}
	return ""
}

// Touch bumps UpdatedAt to now.
func (w *Workflow) Touch() {
	w.UpdatedAt = time.Now().UTC()
}

var idUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// WorkflowID derives a unique, filesystem-safe workflow ID from a project
// name and creation time: the slugged name plus the unix timestamp.
func WorkflowID(name string, createdAt time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = idUnsafe.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "workflow"
	}
	return slug + "_" + strconv.FormatInt(createdAt.Unix(), 10)
}
