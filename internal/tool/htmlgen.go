package tool

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
)

// HTMLGenerator turns structured data into an HTML page, either by filling
// a placeholder template or by asking the oracle to author the page.
type HTMLGenerator struct {
	oracle oracle.Completer
}

// NewHTMLGenerator creates an HTML generator tool. The oracle may be nil,
// in which case only template-based generation is available.
func NewHTMLGenerator(o oracle.Completer) *HTMLGenerator {
	return &HTMLGenerator{oracle: o}
}

// Name implements Tool.
func (h *HTMLGenerator) Name() string { return "html_generator" }

// Run generates HTML. Supported args:
//
//	data:           map of values to render
//	template:       optional template with {key} placeholders
//	title:          page title for the default layout
//	llm_generation: ask the oracle to author the page instead
func (h *HTMLGenerator) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	data, _ := args["data"].(map[string]any)

	if boolArg(args, "llm_generation") {
		if h.oracle == nil {
			return nil, fmt.Errorf("llm_generation requested but no oracle configured")
		}
		prompt := fmt.Sprintf(
			"Generate a clean, professional, self-contained HTML page from this data:\n\n%v\n\n"+
				"Use semantic HTML5, internal CSS, no external resources. "+
				"Return ONLY the complete HTML code with no explanation.", data)
		page, err := h.oracle.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate html: %w", err)
		}
		return map[string]any{"html": page}, nil
	}

	if tmpl := stringArg(args, "template"); tmpl != "" {
		page := tmpl
		for key, value := range data {
			page = strings.ReplaceAll(page, "{"+key+"}", fmt.Sprint(value))
		}
		return map[string]any{"html": page}, nil
	}

	return map[string]any{"html": defaultPage(stringArg(args, "title"), data)}, nil
}

// defaultPage renders data as a minimal definition-list page.
func defaultPage(title string, data map[string]any) string {
	if title == "" {
		title = "AetherFlow Output"
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n<h1>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h1>\n<dl>\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "<dt>%s</dt>\n<dd>%s</dd>\n",
			html.EscapeString(k), html.EscapeString(fmt.Sprint(data[k])))
	}
	b.WriteString("</dl>\n</body>\n</html>\n")
	return b.String()
}
