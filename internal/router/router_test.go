package router

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aetherflow-ai/aetherflow/internal/agent"
	"github.com/aetherflow-ai/aetherflow/internal/registry"
	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

type fakeOracle struct {
	responses []string
	errAt     map[int]error
	calls     int
	prompts   []string
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if err, ok := f.errAt[f.calls]; ok {
		return "", err
	}
	if f.calls > len(f.responses) {
		return "", fmt.Errorf("unexpected oracle call %d", f.calls)
	}
	return f.responses[f.calls-1], nil
}

func newTestRouter(t *testing.T, o *fakeOracle) (*Router, *registry.Resolver) {
	t.Helper()
	dir := t.TempDir()

	reg, err := registry.Open(filepath.Join(dir, "agents_index.json"))
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	resolver := registry.NewResolver(reg, o, nil, filepath.Join(dir, "dynamic_agents"))
	return New(o, resolver, 0), resolver
}

// registerPersona seeds a persona-backed agent whose Act costs one oracle call.
func registerPersona(t *testing.T, resolver *registry.Resolver, personaDir, name, description string) {
	t.Helper()
	if err := os.MkdirAll(personaDir, 0755); err != nil {
		t.Fatal(err)
	}
	p := &agent.Persona{Name: name, Description: description, SystemPrompt: "You are " + description + "."}
	if err := p.Save(filepath.Join(personaDir, name+".yaml")); err != nil {
		t.Fatal(err)
	}
	if err := resolver.Registry().Register(name, models.AgentInfo{
		Description: description,
		SuccessRate: models.DefaultSuccessRate,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestExplicitCreationRequest(t *testing.T) {
	spec := `{
		"agent_name": "haiku_writer",
		"description": "Writes haiku poems",
		"capabilities": ["poetry"]
	}`
	o := &fakeOracle{responses: []string{spec, "You are a haiku writer."}}
	r, resolver := newTestRouter(t, o)

	got := r.Route(context.Background(), "create agent for writing haiku")
	if !strings.Contains(got, "haiku_writer_agent") {
		t.Errorf("unexpected response %q", got)
	}
	if !resolver.Registry().Has("haiku_writer_agent") {
		t.Error("expected haiku_writer_agent registered")
	}
}

func TestExplicitCreationFailureMessage(t *testing.T) {
	o := &fakeOracle{responses: []string{"I cannot produce JSON, sorry."}}
	r, _ := newTestRouter(t, o)

	got := r.Route(context.Background(), "create agent for anything")
	if !strings.Contains(got, "Failed to create specialized agent") {
		t.Errorf("unexpected response %q", got)
	}
}

func TestRouteToExistingAgent(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.Open(filepath.Join(dir, "agents_index.json"))
	if err != nil {
		t.Fatal(err)
	}
	o := &fakeOracle{responses: []string{
		"Write a short poem about the sea.", // refine
		"poet_agent",                        // select
		"yes",                               // capability check
		"a poem about the sea",              // agent act
		"No subtasks needed",                // subtask analysis
	}}
	personaDir := filepath.Join(dir, "dynamic_agents")
	resolver := registry.NewResolver(reg, o, nil, personaDir)
	registerPersona(t, resolver, personaDir, "poet_agent", "a poet")

	r := New(o, resolver, 0)
	got := r.Route(context.Background(), "write a poem about the sea")
	if got != "a poem about the sea" {
		t.Errorf("unexpected response %q", got)
	}

	info, _ := reg.Get("poet_agent")
	if info.UsageCount != 1 || info.SuccessRate != 55 {
		t.Errorf("agent stats not updated: %+v", info)
	}
}

func TestSelectionNoneCreatesSpecializedAgent(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.Open(filepath.Join(dir, "agents_index.json"))
	if err != nil {
		t.Fatal(err)
	}
	spec := `{
		"agent_name": "tax_advisor",
		"description": "Advises on taxes",
		"capabilities": ["tax law"]
	}`
	o := &fakeOracle{responses: []string{
		"Explain my tax options.",  // refine
		"NONE",                     // select
		spec,                       // creation spec
		"You are a tax advisor.",   // persona synthesis
		"here are your options",    // agent act
		"No subtasks needed",       // subtask analysis
	}}
	personaDir := filepath.Join(dir, "dynamic_agents")
	resolver := registry.NewResolver(reg, o, nil, personaDir)
	registerPersona(t, resolver, personaDir, "poet_agent", "a poet")

	r := New(o, resolver, 0)
	got := r.Route(context.Background(), "explain my tax options")
	if got != "here are your options" {
		t.Errorf("unexpected response %q", got)
	}
	if !reg.Has("tax_advisor_agent") {
		t.Error("expected tax_advisor_agent registered")
	}
}

func TestCapabilityMissTriggersCreation(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.Open(filepath.Join(dir, "agents_index.json"))
	if err != nil {
		t.Fatal(err)
	}
	spec := `{
		"agent_name": "sea_chart_maker",
		"description": "Draws nautical charts",
		"capabilities": ["cartography"]
	}`
	o := &fakeOracle{responses: []string{
		"Draw a nautical chart.",       // refine
		"poet_agent",                   // select
		"no",                           // capability check fails
		spec,                           // creation spec
		"You are a chart maker.",       // persona synthesis
		"here is your chart",           // agent act
		"No subtasks needed",           // subtask analysis
	}}
	personaDir := filepath.Join(dir, "dynamic_agents")
	resolver := registry.NewResolver(reg, o, nil, personaDir)
	registerPersona(t, resolver, personaDir, "poet_agent", "a poet")

	r := New(o, resolver, 0)
	got := r.Route(context.Background(), "draw a nautical chart")
	if got != "here is your chart" {
		t.Errorf("unexpected response %q", got)
	}
	if !reg.Has("sea_chart_maker_agent") {
		t.Error("expected sea_chart_maker_agent registered")
	}
}

func TestFallbackToDirectCompletion(t *testing.T) {
	// Empty registry: selection is skipped, creation fails on non-JSON,
	// the router answers with a direct completion.
	o := &fakeOracle{responses: []string{
		"Do the thing.",      // refine
		"no json here",       // creation spec, unparseable
		"a direct answer",    // fallback completion
	}}
	r, _ := newTestRouter(t, o)

	got := r.Route(context.Background(), "do the thing")
	if got != "a direct answer" {
		t.Errorf("unexpected response %q", got)
	}
}

func TestOracleOutageDegradesToErrorString(t *testing.T) {
	down := errors.New("oracle down")
	o := &fakeOracle{errAt: map[int]error{1: down, 2: down, 3: down}}
	r, _ := newTestRouter(t, o)

	got := r.Route(context.Background(), "do anything")
	if !strings.HasPrefix(got, "LLM Error:") {
		t.Errorf("expected degraded error string, got %q", got)
	}
}

func TestSubtaskRecursion(t *testing.T) {
	dir := t.TempDir()
	reg, err := registry.Open(filepath.Join(dir, "agents_index.json"))
	if err != nil {
		t.Fatal(err)
	}
	o := &fakeOracle{responses: []string{
		"Plan the launch.",                  // refine (top)
		"planner_agent",                     // select (top)
		"yes",                               // capability check (top)
		"launch plan drafted",               // act (top)
		"Remaining work:\n- book the venue", // subtask analysis
		"Book the venue.",                   // refine (subtask)
		"planner_agent",                     // select (subtask)
		"yes",                               // capability check (subtask)
		"venue booked",                      // act (subtask)
	}}
	personaDir := filepath.Join(dir, "dynamic_agents")
	resolver := registry.NewResolver(reg, o, nil, personaDir)
	registerPersona(t, resolver, personaDir, "planner_agent", "a planner")

	r := New(o, resolver, 2)
	got := r.Route(context.Background(), "plan the launch")

	if !strings.Contains(got, "launch plan drafted") {
		t.Errorf("top-level response missing: %q", got)
	}
	if !strings.Contains(got, "--- Subtask: book the venue ---") {
		t.Errorf("subtask header missing: %q", got)
	}
	if !strings.Contains(got, "venue booked") {
		t.Errorf("subtask response missing: %q", got)
	}
	// Subtask routing must not analyze for further subtasks: the budget is
	// exhausted and it is flagged as a subtask.
	if o.calls != 9 {
		t.Errorf("expected 9 oracle calls, got %d", o.calls)
	}
}

func TestExtractBullets(t *testing.T) {
	text := "Remaining:\n- first thing\n* second thing\n• third thing\nnot a bullet\n-   \n"
	got := extractBullets(text)
	want := []string{"first thing", "second thing", "third thing"}
	if len(got) != len(want) {
		t.Fatalf("extractBullets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bullet %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsCreationRequest(t *testing.T) {
	if !isCreationRequest("Create agent for poetry") {
		t.Error("expected creation request")
	}
	if !isCreationRequest("make agent that cooks") {
		t.Error("expected creation request")
	}
	if isCreationRequest("write a poem about agents") {
		t.Error("unexpected creation request")
	}
}
