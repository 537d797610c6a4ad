package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// Store persists workflows as one JSON document per workflow at
// <root>/<workflow_id>/workflow.json. Each public mutation reads, modifies,
// and rewrites the whole document; concurrent writers are unsupported.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given workspace directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the workspace root directory.
func (s *Store) Root() string { return s.root }

// Create makes a new workflow with its own workspace directory and
// persists the initial record.
func (s *Store) Create(name, goal string) (*models.Workflow, error) {
	now := time.Now().UTC()
	id := models.WorkflowID(name, now)

	workspace := filepath.Join(s.root, id)
	if err := os.MkdirAll(workspace, 0755); err != nil {
		return nil, fmt.Errorf("create workflow workspace: %w", err)
	}

	w := &models.Workflow{
		ID:        id,
		Name:      name,
		Goal:      goal,
		Status:    models.WorkflowStatusInitialized,
		CreatedAt: now,
		UpdatedAt: now,
		Workspace: workspace,
		Memory:    make(map[string]models.TaskOutput),
	}
	if err := s.Save(w); err != nil {
		return nil, err
	}
	return w, nil
}

// Load reads a workflow by id. Returns ErrWorkflowNotFound when no record
// exists.
func (s *Store) Load(id string) (*models.Workflow, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
		}
		return nil, fmt.Errorf("read workflow %s: %w", id, err)
	}

	var w models.Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", id, err)
	}
	if w.Memory == nil {
		w.Memory = make(map[string]models.TaskOutput)
	}
	return &w, nil
}

// Save writes the full workflow record.
func (s *Store) Save(w *models.Workflow) error {
	if err := os.MkdirAll(filepath.Join(s.root, w.ID), 0755); err != nil {
		return fmt.Errorf("create workflow directory: %w", err)
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workflow %s: %w", w.ID, err)
	}
	if err := os.WriteFile(s.recordPath(w.ID), data, 0644); err != nil {
		return fmt.Errorf("write workflow %s: %w", w.ID, err)
	}
	return nil
}

// List returns every stored workflow, newest first. Directories without a
// readable record are skipped.
func (s *Store) List() ([]*models.Workflow, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace root: %w", err)
	}

	var workflows []*models.Workflow
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		w, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		workflows = append(workflows, w)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})
	return workflows, nil
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.root, id, "workflow.json")
}
