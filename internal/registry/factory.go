package registry

import (
	"github.com/aetherflow-ai/aetherflow/internal/agent"
	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

// builtinFactory constructs one builtin agent.
type builtinFactory func(o oracle.Completer, tools *tool.Registry) agent.Agent

// builtins maps canonical agent names to constructors. Adding a builtin
// agent means adding a row here and a metadata entry in builtinInfo.
var builtins = map[string]builtinFactory{
	"worker_agent": func(o oracle.Completer, tools *tool.Registry) agent.Agent {
		return agent.NewWorker(o, tools)
	},
	"prompt_generator_agent": func(o oracle.Completer, tools *tool.Registry) agent.Agent {
		return agent.NewPromptGenerator(o)
	},
	"web_scraper_agent": func(o oracle.Completer, tools *tool.Registry) agent.Agent {
		return agent.NewWebScraper(o, tools)
	},
}

// builtinInfo holds the index metadata seeded for each builtin agent.
var builtinInfo = map[string]models.AgentInfo{
	"worker_agent": {
		Description:  "General-purpose agent that analyzes a task before executing it",
		Capabilities: []string{"analysis", "execution", "general tasks"},
		SuccessRate:  models.DefaultSuccessRate,
	},
	"prompt_generator_agent": {
		Description:  "Refines raw user input into well-structured prompts and answers them",
		Capabilities: []string{"prompt engineering", "refinement", "response generation"},
		SuccessRate:  models.DefaultSuccessRate,
	},
	"web_scraper_agent": {
		Description:  "Fetches web pages and extracts structured information from them",
		Capabilities: []string{"web scraping", "data extraction", "summarization"},
		SuccessRate:  models.DefaultSuccessRate,
	},
}

// Bootstrap seeds index entries for every builtin agent that is not yet
// registered. Existing entries keep their usage statistics.
func (r *Registry) Bootstrap() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for name, info := range builtinInfo {
		if _, ok := r.agents[name]; ok {
			continue
		}
		seeded := info
		r.agents[name] = &seeded
		changed = true
	}
	if !changed {
		return nil
	}
	return r.save()
}
