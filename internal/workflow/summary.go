package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// SummaryArtifact describes one produced file, with its resolved path.
type SummaryArtifact struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Filename    string `json:"filename"`
	CreatedBy   string `json:"created_by"`
	FullPath    string `json:"full_path"`
}

// Summary is the end-of-execution report written to workflow_summary.json
// in the workflow's workspace.
type Summary struct {
	WorkflowID  string                       `json:"workflow_id"`
	Name        string                       `json:"name"`
	Goal        string                       `json:"goal"`
	Status      models.WorkflowStatus        `json:"status"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
	Artifacts   []SummaryArtifact            `json:"artifacts"`
	TaskResults map[string]string            `json:"task_results"`
	Memory      map[string]models.TaskOutput `json:"memory"`
	Workspace   string                       `json:"workspace"`
}

// WriteSummary builds the execution summary for a workflow and persists it
// to the workspace.
func WriteSummary(w *models.Workflow) (*Summary, error) {
	s := &Summary{
		WorkflowID:  w.ID,
		Name:        w.Name,
		Goal:        w.Goal,
		Status:      w.Status,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Artifacts:   make([]SummaryArtifact, 0, len(w.Artifacts)),
		TaskResults: make(map[string]string),
		Memory:      w.Memory,
		Workspace:   w.Workspace,
	}

	for _, a := range w.Artifacts {
		s.Artifacts = append(s.Artifacts, SummaryArtifact{
			Name:        a.Name,
			Description: a.Description,
			Filename:    a.Filename,
			CreatedBy:   a.CreatedBy,
			FullPath:    filepath.Join(w.Workspace, a.Filename),
		})
	}

	for _, taskID := range w.WorkflowSequence {
		if output, ok := w.Memory[taskID]; ok {
			s.TaskResults[taskID] = output.Summary
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workflow summary: %w", err)
	}
	path := filepath.Join(w.Workspace, "workflow_summary.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write workflow summary: %w", err)
	}
	return s, nil
}
