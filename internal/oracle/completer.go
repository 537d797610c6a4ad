package oracle

import "context"

// CompleteText runs a completion and degrades any oracle failure to a
// plain "LLM Error: ..." string instead of propagating the error. Agents
// and the router consume the oracle through this form so one upstream
// failure surfaces as a readable result rather than a crash.
func CompleteText(ctx context.Context, c Completer, prompt string) string {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return "LLM Error: " + err.Error()
	}
	return text
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
