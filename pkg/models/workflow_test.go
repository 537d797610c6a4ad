package models

import (
	"testing"
	"time"
)

func TestWorkflowID(t *testing.T) {
	at := time.Unix(1700000000, 0)

	tests := []struct {
		name string
		want string
	}{
		{"Portfolio Site", "portfolio_site_1700000000"},
		{"  My   Project  ", "my___project_1700000000"},
		{"Café & Co!", "caf__co_1700000000"},
		{"///", "workflow_1700000000"},
	}

	for _, tt := range tests {
		got := WorkflowID(tt.name, at)
		if got != tt.want {
			t.Errorf("WorkflowID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWorkflowTaskLookup(t *testing.T) {
	w := &Workflow{
		Tasks: []*Task{
			{ID: "t1", Name: "first"},
			{ID: "t2", Name: "second"},
		},
	}

	if got := w.Task("t2"); got == nil || got.Name != "second" {
		t.Errorf("expected task t2, got %+v", got)
	}
	if got := w.Task("missing"); got != nil {
		t.Errorf("expected nil for unknown task, got %+v", got)
	}
}

func TestAgentForRole(t *testing.T) {
	w := &Workflow{
		Agents: []AgentBinding{
			{Name: "designer_agent", Role: "designer"},
			{Name: "writer_agent", Role: "writer"},
		},
	}

	if got := w.AgentForRole("writer"); got != "writer_agent" {
		t.Errorf("expected writer_agent, got %q", got)
	}
	if got := w.AgentForRole("unknown"); got != "" {
		t.Errorf("expected empty binding for unknown role, got %q", got)
	}
}

func TestStatusValidity(t *testing.T) {
	valid := []WorkflowStatus{
		WorkflowStatusInitialized, WorkflowStatusAgentCreation,
		WorkflowStatusExecution, WorkflowStatusFeedbackExecution,
		WorkflowStatusCompleted, WorkflowStatusPartial,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if WorkflowStatus("bogus").Valid() {
		t.Error("expected bogus workflow status to be invalid")
	}

	if !TaskStatusSkipped.Valid() {
		t.Error("expected skipped to be a valid task status")
	}
	if TaskStatus("running").Valid() {
		t.Error("expected unknown task status to be invalid")
	}
}
