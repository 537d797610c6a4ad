package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugLoggerWritesTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.log")

	l, err := NewDebugLogger(path)
	if err != nil {
		t.Fatalf("NewDebugLogger: %v", err)
	}
	l.Log("planned %d tasks", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "planned 3 tasks") {
		t.Errorf("expected logged message, got:\n%s", data)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	for _, line := range lines {
		if !strings.HasPrefix(line, "[") {
			t.Errorf("expected timestamped line, got %q", line)
		}
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	var nilLogger *DebugLogger
	nilLogger.Log("ignored")
	if err := nilLogger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}

	l := NopLogger()
	l.Log("also ignored")
	if err := l.Close(); err != nil {
		t.Errorf("Close on no-op logger: %v", err)
	}
}
