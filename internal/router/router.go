// Package router implements the single-task path: one-off requests that
// do not need a full workflow are refined, matched to the best available
// agent (creating a specialized one on a miss), executed, and optionally
// expanded into recursively routed subtasks.
package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aetherflow-ai/aetherflow/internal/agent"
	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/internal/result"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// DefaultMaxIterations bounds subtask recursion depth.
const DefaultMaxIterations = 3

// noAgentToken is the selection answer meaning no registered agent fits.
const noAgentToken = "NONE"

// creationPrefixes mark a task as an explicit agent creation request.
var creationPrefixes = []string{"create agent", "make agent", "generate agent"}

// Router routes one-off tasks to agents.
type Router struct {
	oracle        oracle.Completer
	resolver      *registry.Resolver
	promptGen     *agent.PromptGenerator
	maxIterations int
}

// New creates a router. maxIterations bounds subtask recursion; values
// below 1 use the default.
func New(o oracle.Completer, resolver *registry.Resolver, maxIterations int) *Router {
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	return &Router{
		oracle:        o,
		resolver:      resolver,
		promptGen:     agent.NewPromptGenerator(o),
		maxIterations: maxIterations,
	}
}

// Route handles one user task end to end and returns a human-readable
// response. It never returns an error: every failure degrades to a
// message the interactive loop can print.
func (r *Router) Route(ctx context.Context, task string) string {
	return r.route(ctx, task, r.maxIterations, false)
}

func (r *Router) route(ctx context.Context, task string, budget int, isSubtask bool) string {
	log.Printf("[router] routing task: %s", task)

	if isCreationRequest(task) {
		name, err := r.createSpecializedAgent(ctx, task)
		if err != nil {
			log.Printf("[router] agent creation failed: %v", err)
			return "Failed to create specialized agent"
		}
		return fmt.Sprintf("Successfully created new agent: %s", name)
	}

	refined := r.refineTask(ctx, task)
	agentName := r.selectAgent(ctx, refined)

	if agentName == "" {
		log.Printf("[router] no suitable agent, creating a specialized one")
		name, err := r.createSpecializedAgent(ctx, refined)
		if err != nil {
			log.Printf("[router] agent creation failed, falling back to direct completion: %v", err)
			return oracle.CompleteText(ctx, r.oracle, refined)
		}
		agentName = name
	} else if !r.verifyCapabilities(ctx, refined, agentName) {
		log.Printf("[router] agent %s missing capabilities, creating a specialized one", agentName)
		if name, err := r.createSpecializedAgent(ctx, refined); err == nil {
			agentName = name
		}
	}

	ag, ok := r.resolver.Instantiate(agentName)
	if !ok {
		log.Printf("[router] failed to initialize agent %s", agentName)
		return fmt.Sprintf("Failed to initialize agent: %s", agentName)
	}

	response, err := ag.Act(ctx, refined)
	if err != nil {
		r.updateStats(agentName, false)
		log.Printf("[router] agent execution failed: %v", err)
		return fmt.Sprintf("Error executing task with %s: %v", agentName, err)
	}
	r.updateStats(agentName, true)

	if budget > 1 && !isSubtask {
		response = r.expandSubtasks(ctx, task, agentName, response, budget)
	}

	log.Printf("[router] task routed successfully via %s", agentName)
	return response
}

// refineTask rewrites the raw input into a clearer prompt. Refinement
// failure falls back to the original text.
func (r *Router) refineTask(ctx context.Context, task string) string {
	refined, err := r.promptGen.RefinePrompt(ctx, task)
	if err != nil || refined == "" {
		r.updateStats("prompt_generator_agent", false)
		log.Printf("[router] task refinement failed: %v", err)
		return task
	}
	r.updateStats("prompt_generator_agent", true)
	return refined
}

// selectAgent asks the oracle to pick the best registered agent. The
// answer contract is constrained: exactly one agent name from the list,
// or the NONE token. An answer that is neither is scanned for a known
// agent name as a fallback; otherwise it is treated as NONE.
func (r *Router) selectAgent(ctx context.Context, task string) string {
	reg := r.resolver.Registry()
	names := reg.Names()
	if len(names) == 0 {
		return ""
	}

	prompt := fmt.Sprintf(`You are an agent router that must select the most suitable agent for a user task.

Task to route: %s

Available agents:
%s
Determine which agent is best suited to handle this task based on their capabilities and description.
Respond with exactly one agent name from the list above, or the single token %s if no agent is suitable. No other text.`,
		task, reg.Describe(), noAgentToken)

	answer, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[router] agent selection failed: %v", err)
		return ""
	}

	choice := strings.ToLower(strings.TrimSpace(answer))
	if choice == strings.ToLower(noAgentToken) {
		return ""
	}
	if reg.Has(choice) {
		return choice
	}
	for _, name := range names {
		if strings.Contains(choice, name) {
			log.Printf("[router] selected agent %s via fallback match", name)
			return name
		}
	}
	log.Printf("[router] unusable selection answer: %q", answer)
	return ""
}

// verifyCapabilities asks the oracle whether the selected agent covers
// everything the task needs. Any answer other than a clear "no" keeps the
// selection.
func (r *Router) verifyCapabilities(ctx context.Context, task, agentName string) bool {
	info, ok := r.resolver.Registry().Get(agentName)
	if !ok {
		return false
	}

	prompt := fmt.Sprintf(`Analyze this task and determine if the selected agent has all required capabilities:

Task: %s
Selected agent: %s
Capabilities: %s

Answer with exactly one word: yes or no.`,
		task, agentName, strings.Join(info.Capabilities, ", "))

	answer, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		return true
	}
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "no")
}

// agentSpec is the shape requested when synthesizing a specialized agent.
type agentSpec struct {
	AgentName    string   `json:"agent_name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// createSpecializedAgent asks the oracle for an agent specification and
// registers it through the resolver.
func (r *Router) createSpecializedAgent(ctx context.Context, task string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following task, suggest a specialized agent name, description, and capabilities in strict JSON format:
Task: %s

JSON Format (MUST be valid JSON):
{
    "agent_name": "descriptive_lowercase_name_with_underscores",
    "description": "Concise description of the agent's purpose",
    "capabilities": ["capability1", "capability2"]
}

IMPORTANT: Ensure the JSON is valid and properly formatted.`, task)

	response, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	var spec agentSpec
	if err := result.ExtractObject(response, &spec); err != nil {
		return "", fmt.Errorf("parse agent specification: %w", err)
	}
	if spec.AgentName == "" || spec.Description == "" {
		return "", fmt.Errorf("incomplete agent specification")
	}

	name, _, err := r.resolver.ResolveOrCreate(ctx, models.Role{
		Role:         spec.AgentName,
		Description:  spec.Description,
		Capabilities: spec.Capabilities,
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// expandSubtasks asks the oracle whether the response left work undone,
// routes each extracted bullet-point subtask with a smaller budget, and
// appends the results.
func (r *Router) expandSubtasks(ctx context.Context, task, agentName, response string, budget int) string {
	prompt := fmt.Sprintf(`Analyze this task and response to identify any incomplete subtasks:

Original Task: %s

Response from %s:
%s

Are there incomplete subtasks that need to be executed by another agent?
If yes, list them in bullet points. If no, respond with 'No subtasks needed'.`,
		task, agentName, response)

	analysis, err := r.oracle.Complete(ctx, prompt)
	if err != nil || strings.Contains(analysis, "No subtasks needed") {
		return response
	}

	subtasks := extractBullets(analysis)
	if len(subtasks) > 0 {
		log.Printf("[router] identified %d subtasks", len(subtasks))
	}
	for _, subtask := range subtasks {
		sub := r.route(ctx, subtask, budget-1, true)
		response += fmt.Sprintf("\n\n--- Subtask: %s ---\n%s", subtask, sub)
	}
	return response
}

// extractBullets returns the text of each bullet-point line.
func extractBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "•") {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(trimmed, "-*• "))
		if item != "" {
			bullets = append(bullets, item)
		}
	}
	return bullets
}

func isCreationRequest(task string) bool {
	lower := strings.ToLower(task)
	for _, prefix := range creationPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func (r *Router) updateStats(agentName string, success bool) {
	if err := r.resolver.Registry().UpdateStats(agentName, success); err != nil {
		log.Printf("[router] warning: failed to update stats for %s: %v", agentName, err)
	}
}
