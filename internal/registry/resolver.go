package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aetherflow-ai/aetherflow/internal/agent"
	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

var nameStripper = regexp.MustCompile(`[^a-z0-9_]+`)

// CanonicalAgentName derives the agent name for a planned role: lower
// snake case with an "_agent" suffix. "Content Writer" becomes
// "content_writer_agent".
func CanonicalAgentName(role string) string {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.ReplaceAll(name, " ", "_")
	name = nameStripper.ReplaceAllString(name, "")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "unnamed"
	}
	if !strings.HasSuffix(name, "_agent") {
		name += "_agent"
	}
	return name
}

// Resolver turns planned roles into concrete, registered agents. Agents
// it synthesizes are persisted as persona specs under personaDir so later
// runs can reuse them.
type Resolver struct {
	registry   *Registry
	oracle     oracle.Completer
	tools      *tool.Registry
	personaDir string
}

// NewResolver creates a resolver writing synthesized personas to personaDir.
func NewResolver(r *Registry, o oracle.Completer, tools *tool.Registry, personaDir string) *Resolver {
	return &Resolver{registry: r, oracle: o, tools: tools, personaDir: personaDir}
}

// Registry returns the backing agent index.
func (r *Resolver) Registry() *Registry { return r.registry }

// ResolveOrCreate returns the canonical agent name for a role, synthesizing
// and registering a new persona-backed agent when none exists. The returned
// bool reports whether a new agent was created.
func (r *Resolver) ResolveOrCreate(ctx context.Context, role models.Role) (string, bool, error) {
	name := CanonicalAgentName(role.Role)
	if r.registry.Has(name) {
		return name, false, nil
	}

	persona, err := r.synthesize(ctx, name, role)
	if err != nil {
		return "", false, fmt.Errorf("synthesize agent %s: %w", name, err)
	}

	if err := os.MkdirAll(r.personaDir, 0755); err != nil {
		return "", false, fmt.Errorf("create persona directory: %w", err)
	}
	if err := persona.Save(filepath.Join(r.personaDir, name+".yaml")); err != nil {
		return "", false, err
	}

	err = r.registry.Register(name, models.AgentInfo{
		Description:  role.Description,
		Capabilities: role.Capabilities,
		SuccessRate:  models.DefaultSuccessRate,
	})
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// synthesize asks the oracle to write a system prompt for the role. When
// the oracle fails, a deterministic prompt built from the role fields is
// used instead; resolution degrades rather than aborting the workflow.
func (r *Resolver) synthesize(ctx context.Context, name string, role models.Role) (*agent.Persona, error) {
	prompt := fmt.Sprintf(
		"Write a system prompt for an AI agent with this role:\n\n"+
			"Role: %s\nDescription: %s\nCapabilities: %s\nResponsibilities: %s\n\n"+
			"The system prompt should tell the agent who it is, what it is good at, "+
			"and how it should approach tasks. Return only the system prompt text.",
		role.Role, role.Description,
		strings.Join(role.Capabilities, ", "),
		strings.Join(role.Responsibilities, ", "))

	systemPrompt, err := r.oracle.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = fmt.Sprintf("You are a %s. %s Your responsibilities: %s.",
			role.Role, role.Description, strings.Join(role.Responsibilities, ", "))
	}

	return &agent.Persona{
		Name:         name,
		Description:  role.Description,
		Capabilities: role.Capabilities,
		SystemPrompt: strings.TrimSpace(systemPrompt),
	}, nil
}

// Instantiate constructs a runnable agent by name. Builtin agents come
// from the factory table; other names are looked up as persona specs in
// personaDir. The bool reports whether the agent could be built.
func (r *Resolver) Instantiate(name string) (agent.Agent, bool) {
	if factory, ok := builtins[name]; ok {
		return factory(r.oracle, r.tools), true
	}

	persona, err := agent.LoadPersona(filepath.Join(r.personaDir, name+".yaml"))
	if err != nil {
		return nil, false
	}
	return agent.NewPersonaAgent(persona, r.oracle), true
}

// ScanPersonaDir registers every valid persona spec found in personaDir
// that is not already in the index. Invalid files are skipped.
func (r *Resolver) ScanPersonaDir() (int, error) {
	entries, err := os.ReadDir(r.personaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read persona directory: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		persona, err := agent.LoadPersona(filepath.Join(r.personaDir, entry.Name()))
		if err != nil {
			continue
		}
		if r.registry.Has(persona.Name) {
			continue
		}
		description := persona.Description
		if description == "" {
			description = "Auto-detected " + persona.Name
		}
		err = r.registry.Register(persona.Name, models.AgentInfo{
			Description:  description,
			Capabilities: persona.Capabilities,
			SuccessRate:  models.DefaultSuccessRate,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
