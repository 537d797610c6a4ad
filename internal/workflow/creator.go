package workflow

import (
	"context"
	"log"

	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// AgentCreator binds every planned role to a registered agent, synthesizing
// new agents for roles nobody covers yet.
type AgentCreator struct {
	resolver *registry.Resolver
	store    *Store
}

// NewAgentCreator creates an agent creator.
func NewAgentCreator(r *registry.Resolver, store *Store) *AgentCreator {
	return &AgentCreator{resolver: r, store: store}
}

// CreateAgents resolves an agent for each of the workflow's roles, records
// the bindings, and advances the workflow to execution. A role whose agent
// cannot be created is left unbound; its tasks will fail at execution time
// rather than aborting binding for the remaining roles.
func (c *AgentCreator) CreateAgents(ctx context.Context, w *models.Workflow) ([]string, error) {
	log.Printf("[agents] binding agents for workflow %s", w.ID)

	var bound []string
	for _, role := range w.Roles {
		if w.AgentForRole(role.Role) != "" {
			continue
		}

		name, created, err := c.resolver.ResolveOrCreate(ctx, role)
		if err != nil {
			log.Printf("[agents] could not create agent for role %q: %v", role.Role, err)
			continue
		}
		if created {
			log.Printf("[agents] created agent %s for role %q", name, role.Role)
		} else {
			log.Printf("[agents] reusing agent %s for role %q", name, role.Role)
		}

		w.Agents = append(w.Agents, models.AgentBinding{
			Name:             name,
			Role:             role.Role,
			Description:      role.Description,
			Capabilities:     role.Capabilities,
			Responsibilities: role.Responsibilities,
		})
		bound = append(bound, name)
	}

	w.Status = models.WorkflowStatusExecution
	w.Touch()
	if err := c.store.Save(w); err != nil {
		return bound, err
	}
	return bound, nil
}
