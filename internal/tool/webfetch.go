package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxFetchBytes caps how much of a response body is read.
const maxFetchBytes = 2 << 20

// WebFetch retrieves the content of a URL over HTTP GET.
type WebFetch struct {
	client *http.Client
}

// NewWebFetch creates a web fetch tool with a 30 second request timeout.
func NewWebFetch() *WebFetch {
	return &WebFetch{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements Tool.
func (w *WebFetch) Name() string { return "web_fetch" }

// Run fetches args["url"] and returns the status code, content type, and
// body (truncated to a fixed cap).
func (w *WebFetch) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	url := stringArg(args, "url")
	if url == "" {
		return nil, fmt.Errorf("url argument is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "aetherflow/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	return map[string]any{
		"url":          url,
		"status_code":  resp.StatusCode,
		"content_type": resp.Header.Get("Content-Type"),
		"body":         string(body),
	}, nil
}
