package agent

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
)

// Persona is the loadable specification of a synthesized agent. New agent
// behavior is expressed as data (a system prompt plus metadata) so the
// registry can add agents at runtime without new code.
type Persona struct {
	// Name is the canonical agent name (lower snake case, "_agent" suffix).
	Name string `yaml:"name"`
	// Description summarizes the agent's purpose.
	Description string `yaml:"description"`
	// Capabilities lists the agent's skill tags.
	Capabilities []string `yaml:"capabilities"`
	// SystemPrompt frames every task the agent executes.
	SystemPrompt string `yaml:"system_prompt"`
}

// LoadPersona reads a persona spec from a YAML file.
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona: %w", err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse persona %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("persona %s: missing name", path)
	}
	return &p, nil
}

// Save writes the persona spec to a YAML file.
func (p *Persona) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal persona: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write persona: %w", err)
	}
	return nil
}

// PersonaAgent executes tasks under a persona's system prompt.
type PersonaAgent struct {
	Core
	persona *Persona
}

// NewPersonaAgent creates an agent from a persona spec.
func NewPersonaAgent(p *Persona, o oracle.Completer) *PersonaAgent {
	return &PersonaAgent{Core: NewCore(p.Name, o, nil), persona: p}
}

// Persona returns the agent's spec.
func (a *PersonaAgent) Persona() *Persona { return a.persona }

// Act executes the task framed by the persona's system prompt.
func (a *PersonaAgent) Act(ctx context.Context, task string) (string, error) {
	framing := a.persona.SystemPrompt
	if framing == "" {
		framing = fmt.Sprintf("You are %s: %s", a.persona.Name, a.persona.Description)
	}
	return a.Complete(ctx, fmt.Sprintf("%s\n\n%s", framing, task))
}
