package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/tool"
)

// WebScraper specializes in fetching web content and turning it into
// extracted data or generated pages, using the web_fetch, data_extractor,
// and html_generator tools.
type WebScraper struct {
	Core
}

// NewWebScraper creates the builtin web scraper agent.
func NewWebScraper(o oracle.Completer, tools *tool.Registry) *WebScraper {
	return &WebScraper{Core: NewCore("web_scraper_agent", o, tools)}
}

// Think produces a step-by-step scraping plan for the task.
func (s *WebScraper) Think(ctx context.Context, task string) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze this web scraping task:\n\n%s\n\n"+
			"What is the best strategy to complete it? Consider:\n"+
			"1. What URL needs to be fetched?\n"+
			"2. What specific information needs to be extracted?\n"+
			"3. How should the data be formatted and presented?\n\n"+
			"Provide a step-by-step plan.", task)
	return s.Complete(ctx, prompt)
}

// Act fetches the URL named in the task, extracts its key information,
// and summarizes the findings.
func (s *WebScraper) Act(ctx context.Context, task string) (string, error) {
	url, err := s.extractURL(ctx, task)
	if err != nil {
		return "", err
	}

	fetched, err := s.UseTool(ctx, "web_fetch", map[string]any{"url": url})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	body, _ := fetched["body"].(string)
	extracted, err := s.UseTool(ctx, "data_extractor", map[string]any{
		"text":           body,
		"llm_extraction": true,
	})
	if err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	prompt := fmt.Sprintf(
		"You fetched %s and extracted the following structured data:\n\n%v\n\n"+
			"Original task:\n%s\n\n"+
			"Produce the deliverable the task asks for.", url, extracted, task)
	return s.Complete(ctx, prompt)
}

// extractURL asks the oracle to isolate the URL mentioned in the task.
func (s *WebScraper) extractURL(ctx context.Context, task string) (string, error) {
	answer, err := s.Complete(ctx, fmt.Sprintf(
		"Extract just the URL from this task. Return only the URL, nothing else.\n\nTask: %s", task))
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(answer)
	if !strings.HasPrefix(url, "http") {
		return "", fmt.Errorf("no valid URL found in task")
	}
	return url, nil
}
