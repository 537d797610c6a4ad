package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
)

// PromptGenerator refines raw user input into a well-structured prompt
// before routing, and can produce a final response from the refined prompt.
type PromptGenerator struct {
	Core
}

// NewPromptGenerator creates the builtin prompt generator agent.
func NewPromptGenerator(o oracle.Completer) *PromptGenerator {
	return &PromptGenerator{Core: NewCore("prompt_generator_agent", o, nil)}
}

// RefinePrompt rewrites the user's raw input into a clearer prompt. The
// meta-level intent is preserved: "create a prompt about X" stays a
// request for a prompt, not for X itself.
func (p *PromptGenerator) RefinePrompt(ctx context.Context, userInput string) (string, error) {
	instruction := "You are an AI assistant skilled in prompt engineering. " +
		"If the user is asking for a prompt about something, maintain that meta-level intent. " +
		"Don't convert 'create a prompt about X' into just 'create X'. " +
		"Rewrite the user's raw input into a well-structured AI prompt. " +
		"Ensure clarity, specificity, and context-awareness. " +
		"Do NOT provide any response to the prompt, just rewrite the prompt itself."

	refined, err := p.Complete(ctx, fmt.Sprintf("%s\n\nUser Input: %s\n\nRefined Prompt:", instruction, userInput))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(refined), nil
}

// Act refines the input and answers the refined prompt.
func (p *PromptGenerator) Act(ctx context.Context, task string) (string, error) {
	response, _, err := p.GenerateFinalResponse(ctx, task)
	return response, err
}

// GenerateFinalResponse refines the prompt, sends it to the oracle, and
// returns the response with the elapsed time.
func (p *PromptGenerator) GenerateFinalResponse(ctx context.Context, userInput string) (string, time.Duration, error) {
	if strings.TrimSpace(userInput) == "" {
		return "", 0, fmt.Errorf("empty input")
	}

	start := time.Now()

	refined, err := p.RefinePrompt(ctx, userInput)
	if err != nil {
		// Fall back to the original input when refinement fails.
		refined = userInput
	}

	response, err := p.Complete(ctx, refined)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, err
	}
	return strings.TrimSpace(response), elapsed, nil
}
