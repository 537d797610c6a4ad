// Package registry manages agent metadata and instantiation. It persists
// an index mapping agent name to metadata (description, capabilities,
// usage statistics), resolves planned roles to concrete agents, and
// synthesizes new persona-backed agents via the oracle when no existing
// agent fits.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// Registry is a thread-safe agent index backed by a single JSON document,
// read and written wholesale.
type Registry struct {
	indexPath string

	mu     sync.RWMutex
	agents map[string]*models.AgentInfo
}

// Open loads the agent index at indexPath. A missing or corrupt index is
// replaced by an empty, valid one; bootstrap never fails on bad state.
func Open(indexPath string) (*Registry, error) {
	r := &Registry{
		indexPath: indexPath,
		agents:    make(map[string]*models.AgentInfo),
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := r.save(); err != nil {
				return nil, fmt.Errorf("initialize agent index: %w", err)
			}
			return r, nil
		}
		return nil, fmt.Errorf("read agent index: %w", err)
	}

	if err := json.Unmarshal(data, &r.agents); err != nil || r.agents == nil {
		// Corrupt index: reset rather than fail.
		r.agents = make(map[string]*models.AgentInfo)
		if err := r.save(); err != nil {
			return nil, fmt.Errorf("reset corrupt agent index: %w", err)
		}
	}

	return r, nil
}

// save writes the whole index. Callers must hold the write lock across
// mutate and save.
func (r *Registry) save() error {
	if dir := filepath.Dir(r.indexPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r.agents, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal agent index: %w", err)
	}
	if err := os.WriteFile(r.indexPath, data, 0644); err != nil {
		return fmt.Errorf("write agent index: %w", err)
	}
	return nil
}

// Register adds or replaces an agent's metadata and persists the index.
func (r *Registry) Register(name string, info models.AgentInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents[name] = &info
	return r.save()
}

// Get returns a copy of an agent's metadata.
func (r *Registry) Get(name string) (models.AgentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.agents[name]
	if !ok {
		return models.AgentInfo{}, false
	}
	return *info, true
}

// Has reports whether an agent is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[name]
	return ok
}

// Names returns all registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateStats records one execution outcome for an agent and persists the
// index. Unknown agents are ignored.
func (r *Registry) UpdateStats(name string, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.agents[name]
	if !ok {
		return nil
	}
	info.RecordOutcome(success)
	return r.save()
}

// Describe renders one line per agent (name, description, capabilities)
// for use in selection prompts.
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		info := r.agents[name]
		fmt.Fprintf(&b, "- %s: %s (Capabilities: %s)\n",
			name, info.Description, strings.Join(info.Capabilities, ", "))
	}
	return b.String()
}
