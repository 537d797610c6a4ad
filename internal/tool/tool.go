// Package tool provides the capability-typed plugins agents invoke by
// name: filesystem access, web fetching, HTML generation, and data
// extraction. Tools are invoked with an argument map and return a result
// map, so agents stay decoupled from concrete tool types.
package tool

import (
	"context"
	"fmt"
	"sync"
)

// Tool is one named capability an agent can invoke.
type Tool interface {
	// Name returns the capability name (e.g. "filesystem", "web_fetch").
	Name() string
	// Run executes the tool with the given arguments.
	Run(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Registry is a thread-safe name-to-tool table.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its own name, replacing any previous entry.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool with the given name, or false if unregistered.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Run looks up and executes a tool in one step.
func (r *Registry) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool %q not found", name)
	}
	return t.Run(ctx, args)
}

// Names returns the registered tool names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// stringArg reads a string argument from an args map, with "" for missing.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// boolArg reads a bool argument from an args map.
func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}
