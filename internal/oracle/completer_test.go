package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCompleteTextPassesThroughSuccess(t *testing.T) {
	c := CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		return "hello " + prompt, nil
	})

	got := CompleteText(context.Background(), c, "world")
	if got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestCompleteTextDegradesErrors(t *testing.T) {
	c := CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", &Error{Op: "complete", Err: errors.New("connection refused")}
	})

	got := CompleteText(context.Background(), c, "anything")
	if !strings.HasPrefix(got, "LLM Error: ") {
		t.Errorf("expected LLM Error prefix, got %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("expected cause in message, got %q", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Op: "complete", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("unexpected error string %q", err.Error())
	}
}
