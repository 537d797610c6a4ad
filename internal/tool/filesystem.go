package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem reads and writes files under a base directory. Write paths
// are confined to the base directory; traversal outside it is rejected.
type FileSystem struct {
	baseDir string
}

// NewFileSystem creates a filesystem tool rooted at baseDir, creating the
// directory if needed.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// Name implements Tool.
func (f *FileSystem) Name() string { return "filesystem" }

// Run performs one filesystem operation. Supported args:
//
//	operation: "read", "write", "append", or "list"
//	path:      file path, resolved under the base directory
//	content:   text to write (write/append)
func (f *FileSystem) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	operation := stringArg(args, "operation")
	path := stringArg(args, "path")

	resolved, err := f.resolve(path)
	if err != nil {
		return nil, err
	}

	switch operation {
	case "read":
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return map[string]any{"content": string(data), "path": resolved}, nil

	case "write", "append":
		content := stringArg(args, "content")
		if dir := filepath.Dir(resolved); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create directory: %w", err)
			}
		}
		flags := os.O_CREATE | os.O_WRONLY
		if operation == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		file, err := os.OpenFile(resolved, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()
		if _, err := file.WriteString(content); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		return map[string]any{"success": true, "path": resolved}, nil

	case "list":
		entries, err := os.ReadDir(resolved)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return map[string]any{"entries": names, "path": resolved}, nil

	default:
		return nil, fmt.Errorf("unknown filesystem operation %q", operation)
	}
}

// resolve joins path under the base directory and rejects traversal.
func (f *FileSystem) resolve(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path traversal not allowed: %q", path)
	}
	if path == "" {
		return f.baseDir, nil
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute paths not allowed: %q", path)
	}
	return filepath.Join(f.baseDir, path), nil
}
