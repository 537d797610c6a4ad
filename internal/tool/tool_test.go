package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(NewWebFetch())

	if _, ok := r.Get("web_fetch"); !ok {
		t.Error("expected web_fetch to be registered")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing tool to be absent")
	}

	if _, err := r.Run(context.Background(), "missing", nil); err == nil {
		t.Error("expected error running unregistered tool")
	}
}

func TestFileSystemWriteRead(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSystem(dir)
	if err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}
	ctx := context.Background()

	out, err := fs.Run(ctx, map[string]any{
		"operation": "write",
		"path":      "pages/index.html",
		"content":   "<html></html>",
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if out["success"] != true {
		t.Errorf("expected success, got %+v", out)
	}

	out, err = fs.Run(ctx, map[string]any{
		"operation": "read",
		"path":      "pages/index.html",
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out["content"] != "<html></html>" {
		t.Errorf("unexpected content %v", out["content"])
	}

	out, err = fs.Run(ctx, map[string]any{"operation": "list", "path": "pages"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	entries := out["entries"].([]string)
	if len(entries) != 1 || entries[0] != "index.html" {
		t.Errorf("unexpected entries %v", entries)
	}
}

func TestFileSystemRejectsTraversal(t *testing.T) {
	fs, err := NewFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystem: %v", err)
	}

	_, err = fs.Run(context.Background(), map[string]any{
		"operation": "write",
		"path":      "../escape.txt",
		"content":   "nope",
	})
	if err == nil {
		t.Fatal("expected traversal to be rejected")
	}

	_, err = fs.Run(context.Background(), map[string]any{
		"operation": "read",
		"path":      "/etc/hostname",
	})
	if err == nil {
		t.Fatal("expected absolute path to be rejected")
	}
}

func TestFileSystemAppend(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFileSystem(dir)
	ctx := context.Background()

	for _, chunk := range []string{"one\n", "two\n"} {
		if _, err := fs.Run(ctx, map[string]any{
			"operation": "append", "path": "log.txt", "content": chunk,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWebFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	wf := NewWebFetch()
	out, err := wf.Run(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if out["status_code"] != 200 {
		t.Errorf("unexpected status %v", out["status_code"])
	}
	if !strings.Contains(out["body"].(string), "hello") {
		t.Errorf("unexpected body %v", out["body"])
	}
}

func TestWebFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	wf := NewWebFetch()
	if _, err := wf.Run(context.Background(), map[string]any{"url": srv.URL}); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHTMLGeneratorTemplate(t *testing.T) {
	gen := NewHTMLGenerator(nil)

	out, err := gen.Run(context.Background(), map[string]any{
		"template": "<h1>{title}</h1><p>{body}</p>",
		"data":     map[string]any{"title": "Hi", "body": "There"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out["html"] != "<h1>Hi</h1><p>There</p>" {
		t.Errorf("unexpected html %v", out["html"])
	}
}

func TestHTMLGeneratorDefaultPage(t *testing.T) {
	gen := NewHTMLGenerator(nil)

	out, err := gen.Run(context.Background(), map[string]any{
		"title": "Report",
		"data":  map[string]any{"items": "3"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := out["html"].(string)
	if !strings.Contains(page, "<title>Report</title>") || !strings.Contains(page, "<dt>items</dt>") {
		t.Errorf("unexpected page:\n%s", page)
	}
}

func TestDataExtractorPatterns(t *testing.T) {
	ex := NewDataExtractor(nil)

	out, err := ex.Run(context.Background(), map[string]any{
		"text": "Contact us at hello@example.com or sales@example.org.",
		"schema": map[string]any{
			"emails": `[a-z]+@[a-z]+\.[a-z]+`,
		},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	emails := out["emails"].([]string)
	if len(emails) != 2 {
		t.Errorf("expected 2 emails, got %v", emails)
	}
}

func TestDataExtractorOracleFallback(t *testing.T) {
	o := oracle.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		return "this is not json at all", nil
	})
	ex := NewDataExtractor(o)

	out, err := ex.Run(context.Background(), map[string]any{
		"text":           "some text",
		"llm_extraction": true,
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out["raw_extraction"] != "this is not json at all" {
		t.Errorf("expected raw extraction preserved, got %+v", out)
	}
}
