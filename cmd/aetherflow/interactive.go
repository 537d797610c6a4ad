package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aetherflow-ai/aetherflow/pkg/models"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	responseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// resultMsg carries the outcome of one dispatched input back to the loop.
type resultMsg struct {
	text  string
	isErr bool
}

// interactiveModel is the bubbletea model for the interactive session:
// a single input line, a transcript, and a spinner while a task runs.
type interactiveModel struct {
	app        *app
	input      textinput.Model
	spin       spinner.Model
	transcript []string
	busy       bool
	quitting   bool
}

func newInteractiveModel(a *app) interactiveModel {
	input := textinput.New()
	input.Placeholder = "Type a task, 'workflow create <goal>', or 'quit'"
	input.Focus()
	input.CharLimit = 2000
	input.Width = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return interactiveModel{app: a, input: input, spin: spin}
}

func (m interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" || line == "quit" || line == "exit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.input.Reset()
			m.transcript = append(m.transcript, promptStyle.Render("> ")+line)
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.dispatch(line))
		}

	case resultMsg:
		m.busy = false
		style := responseStyle
		if msg.isErr {
			style = errorStyle
		}
		m.transcript = append(m.transcript, style.Render(msg.text), "")
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m interactiveModel) View() string {
	if m.quitting {
		return "Goodbye.\n"
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render("AetherFlow") + hintStyle.Render("  quit/exit or empty input to leave") + "\n\n")
	for _, line := range m.transcript {
		b.WriteString(line + "\n")
	}
	if m.busy {
		b.WriteString(m.spin.View() + " working...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	return b.String()
}

// dispatch runs one input line off the UI goroutine. A panic anywhere in
// handling becomes a printed error; the loop itself never dies.
func (m interactiveModel) dispatch(line string) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[interactive] recovered from panic: %v", r)
				msg = resultMsg{text: fmt.Sprintf("Internal error: %v", r), isErr: true}
			}
		}()
		return m.handle(line)
	}
}

func (m interactiveModel) handle(line string) resultMsg {
	ctx := context.Background()

	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "workflow" {
		return m.handleWorkflow(ctx, fields[1:])
	}

	return resultMsg{text: m.app.router.Route(ctx, line)}
}

func (m interactiveModel) handleWorkflow(ctx context.Context, args []string) resultMsg {
	if len(args) == 0 {
		return resultMsg{text: "Usage: workflow create <goal> | workflow feedback <id> <text> | workflow list | workflow open <id>", isErr: true}
	}

	switch args[0] {
	case "create":
		if len(args) < 2 {
			return resultMsg{text: "Usage: workflow create <goal>", isErr: true}
		}
		goal := strings.Join(args[1:], " ")
		w, summary, err := m.app.engine.Run(ctx, "", goal)
		if err != nil {
			return resultMsg{text: fmt.Sprintf("Workflow failed: %v", err), isErr: true}
		}
		var lines []string
		lines = append(lines, fmt.Sprintf("Workflow %s finished with status %s", w.ID, w.Status))
		for _, artifact := range summary.Artifacts {
			lines = append(lines, "artifact: "+artifact.FullPath)
		}
		return resultMsg{text: strings.Join(lines, "\n")}

	case "feedback":
		if len(args) < 3 {
			return resultMsg{text: "Usage: workflow feedback <id> <text>", isErr: true}
		}
		w, _, err := m.app.engine.Feedback(ctx, args[1], strings.Join(args[2:], " "))
		if err != nil {
			return resultMsg{text: fmt.Sprintf("Feedback failed: %v", err), isErr: true}
		}
		return resultMsg{text: fmt.Sprintf("Feedback applied; workflow %s is now %s", w.ID, w.Status)}

	case "list":
		workflows, err := m.app.engine.Store().List()
		if err != nil {
			return resultMsg{text: fmt.Sprintf("List failed: %v", err), isErr: true}
		}
		if len(workflows) == 0 {
			return resultMsg{text: "No workflows yet."}
		}
		var lines []string
		for _, w := range workflows {
			lines = append(lines, fmt.Sprintf("%s  [%s]  %s", w.ID, w.Status, w.Goal))
		}
		return resultMsg{text: strings.Join(lines, "\n")}

	case "open":
		if len(args) < 2 {
			return resultMsg{text: "Usage: workflow open <id>", isErr: true}
		}
		w, err := m.app.engine.Store().Load(args[1])
		if err != nil {
			return resultMsg{text: fmt.Sprintf("Open failed: %v", err), isErr: true}
		}
		return resultMsg{text: describeWorkflow(w)}

	default:
		return resultMsg{text: fmt.Sprintf("Unknown workflow command %q", args[0]), isErr: true}
	}
}

func describeWorkflow(w *models.Workflow) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("%s (%s)", w.ID, w.Status),
		"Goal: "+w.Goal,
		"Workspace: "+w.Workspace)
	for _, taskID := range w.WorkflowSequence {
		task := w.Task(taskID)
		if task == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("  [%s] %s: %s", task.Status, task.ID, task.Name))
	}
	for _, artifact := range w.Artifacts {
		lines = append(lines, "  artifact: "+artifact.Filename+" by "+artifact.CreatedBy)
	}
	return strings.Join(lines, "\n")
}

// runInteractive starts the interactive session.
func runInteractive() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Engine logs would corrupt the TUI frame.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	program := tea.NewProgram(newInteractiveModel(a))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interactive session: %w", err)
	}
	return nil
}
