// Package result normalizes heterogeneous oracle and agent output into
// structured records. The oracle is untrusted: its completions may be plain
// prose, JSON wrapped in markdown fences, JSON surrounded by commentary, or
// malformed JSON. Everything here is written to survive that.
package result

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON indicates no parseable JSON object was found in a completion.
var ErrNoJSON = errors.New("no valid JSON object found in response")

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractObject locates a JSON object in a possibly noisy completion and
// unmarshals it into v. It tries, in order: the whole text, each fenced
// code block, the first balanced object, and the longest greedy {...} span.
// Returns ErrNoJSON when no candidate parses.
func ExtractObject(text string, v any) error {
	for _, candidate := range objectCandidates(text) {
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return nil
		}
	}
	return ErrNoJSON
}

// objectCandidates returns substrings of text that might be JSON objects,
// ordered from most to least likely.
func objectCandidates(text string) []string {
	var candidates []string

	trimmed := strings.TrimSpace(text)
	if trimmed != "" {
		candidates = append(candidates, trimmed)
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		if strings.Contains(inner, "{") {
			candidates = append(candidates, inner)
		}
	}

	if span := firstBalancedObject(text); span != "" {
		candidates = append(candidates, span)
	}

	// Longest greedy span: first "{" through last "}".
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		candidates = append(candidates, text[start:end+1])
	}

	return candidates
}

// firstBalancedObject scans for the first brace-balanced object in text,
// respecting JSON string literals and escapes. Returns "" if none closes.
func firstBalancedObject(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
