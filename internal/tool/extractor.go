package tool

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aetherflow-ai/aetherflow/internal/oracle"
	"github.com/aetherflow-ai/aetherflow/internal/result"
)

// DataExtractor pulls structured data out of free text, either with a
// regex pattern schema or by asking the oracle.
type DataExtractor struct {
	oracle oracle.Completer
}

// NewDataExtractor creates a data extraction tool. The oracle may be nil,
// in which case only pattern-based extraction is available.
func NewDataExtractor(o oracle.Completer) *DataExtractor {
	return &DataExtractor{oracle: o}
}

// Name implements Tool.
func (d *DataExtractor) Name() string { return "data_extractor" }

// maxExtractionInput bounds the text sent to the oracle per extraction.
const maxExtractionInput = 10000

// Run extracts data from args["text"]. Supported args:
//
//	text:           the text to extract from
//	schema:         map of field name to regex pattern
//	llm_extraction: ask the oracle to extract entities as JSON instead
func (d *DataExtractor) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	text := stringArg(args, "text")
	if text == "" {
		return nil, fmt.Errorf("text argument is required")
	}

	if boolArg(args, "llm_extraction") {
		if d.oracle == nil {
			return nil, fmt.Errorf("llm_extraction requested but no oracle configured")
		}
		return d.extractWithOracle(ctx, text)
	}

	schema, _ := args["schema"].(map[string]any)
	if len(schema) == 0 {
		return nil, fmt.Errorf("schema argument is required for pattern extraction")
	}

	extracted := make(map[string]any, len(schema))
	for field, pattern := range schema {
		p, ok := pattern.(string)
		if !ok {
			return nil, fmt.Errorf("schema field %q: pattern must be a string", field)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("schema field %q: %w", field, err)
		}
		extracted[field] = re.FindAllString(text, -1)
	}
	return extracted, nil
}

// extractWithOracle asks the oracle for a JSON object of entities and
// facts. An unparseable completion is preserved under "raw_extraction".
func (d *DataExtractor) extractWithOracle(ctx context.Context, text string) (map[string]any, error) {
	if len(text) > maxExtractionInput {
		text = text[:maxExtractionInput]
	}

	prompt := fmt.Sprintf(
		"Extract all key entities, facts, and relationships from the following text.\n\n"+
			"TEXT:\n%s\n\n"+
			"Return ONLY a valid JSON object with the extracted information.", text)

	completion, err := d.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("oracle extraction: %w", err)
	}

	var extracted map[string]any
	if err := result.ExtractObject(completion, &extracted); err != nil {
		return map[string]any{"raw_extraction": completion}, nil
	}
	return extracted, nil
}
