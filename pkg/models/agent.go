// Package models defines the core data types shared across AetherFlow:
// workflows, tasks, roles, agents, artifacts, and task results.
package models

// AgentInfo is a registry entry describing a named agent. Agents are not
// workflow-scoped; the same entry can serve multiple workflows and the
// single-task router.
type AgentInfo struct {
	// Description summarizes what the agent does.
	Description string `json:"description"`
	// Capabilities lists the skill tags used for task matching.
	Capabilities []string `json:"capabilities,omitempty"`
	// UsageCount is incremented on every execution, success or failure.
	UsageCount int `json:"usage_count"`
	// SuccessRate is a score in [0,100], nudged ±5 per outcome.
	SuccessRate float64 `json:"success_rate"`
}

// DefaultSuccessRate is the starting score for an agent that has never run.
const DefaultSuccessRate = 50.0

// RecordOutcome updates the usage count and success rate for one execution.
// An unscored agent is initialized to DefaultSuccessRate before the nudge.
// The rate is clamped to [0,100].
func (a *AgentInfo) RecordOutcome(success bool) {
	// A zero rate on a never-used agent means it was never scored.
	if a.SuccessRate == 0 && a.UsageCount == 0 {
		a.SuccessRate = DefaultSuccessRate
	}
	a.UsageCount++
	if success {
		a.SuccessRate += 5
	} else {
		a.SuccessRate -= 5
	}
	if a.SuccessRate > 100 {
		a.SuccessRate = 100
	}
	if a.SuccessRate < 0 {
		a.SuccessRate = 0
	}
}
