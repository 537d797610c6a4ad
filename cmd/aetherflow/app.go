package main

import (
	"fmt"
	"path/filepath"

	"github.com/aetherflow-ai/aetherflow/internal/config"
	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/internal/router"
	"github.com/aetherflow-ai/aetherflow/internal/state"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
	"github.com/aetherflow-ai/aetherflow/internal/workflow"
)

// app bundles the wired components behind every CLI command.
type app struct {
	cfg      *config.Config
	oracle   *oracle.Client
	registry *registry.Registry
	resolver *registry.Resolver
	watcher  *registry.Watcher
	history  *state.DB
	engine   *workflow.Engine
	router   *router.Router
	debugLog *workflow.DebugLogger
}

// newApp loads configuration and wires all components. The workspace
// directory holds workflow records, the agent index, persona specs, and
// the history database.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := oracle.NewClient(cfg.Anthropic)
	if err != nil {
		return nil, err
	}

	workspaceDir, err := filepath.Abs(cfg.Workspace.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace directory: %w", err)
	}

	tools := tool.NewRegistry()
	fs, err := tool.NewFileSystem(workspaceDir)
	if err != nil {
		return nil, err
	}
	tools.Register(fs)
	tools.Register(tool.NewWebFetch())
	tools.Register(tool.NewHTMLGenerator(client))
	tools.Register(tool.NewDataExtractor(client))

	reg, err := registry.Open(filepath.Join(workspaceDir, "agents_index.json"))
	if err != nil {
		return nil, err
	}
	if err := reg.Bootstrap(); err != nil {
		return nil, err
	}

	resolver := registry.NewResolver(reg, client, tools, filepath.Join(workspaceDir, "dynamic_agents"))
	watcher, err := registry.WatchPersonaDir(resolver)
	if err != nil {
		// Agents written while running just need a restart to appear.
		watcher = nil
	}

	history, err := state.OpenWorkspace(workspaceDir)
	if err != nil {
		return nil, err
	}

	store := workflow.NewStore(filepath.Join(workspaceDir, "workflows"))
	engine := workflow.NewEngine(client, store, resolver, history, cfg.Executor.MaxIterations)

	debugLog := workflow.NopLogger()
	if cfg.Logging.Debug {
		debugLog, err = workflow.NewDebugLogger(filepath.Join(workspaceDir, "logs", "engine.log"))
		if err != nil {
			return nil, err
		}
	}
	engine.SetDebugLogger(debugLog)

	return &app{
		cfg:      cfg,
		oracle:   client,
		registry: reg,
		resolver: resolver,
		watcher:  watcher,
		history:  history,
		engine:   engine,
		router:   router.New(client, resolver, cfg.Router.MaxIterations),
		debugLog: debugLog,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
	a.debugLog.Close()
}
