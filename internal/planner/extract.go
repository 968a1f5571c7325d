package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	errx "github.com/yatrika/server/internal/core/error"
	logx "github.com/yatrika/server/pkg/logger"
)

// JSONMode selects which bracket pair the extractor slices between.
type JSONMode int

const (
	// ObjectMode slices between the first '{' and the last '}'.
	ObjectMode JSONMode = iota
	// ArrayMode slices between the first '[' and the last ']'. Used by the
	// weather-adjustment flow, which expects a bare activity array.
	ArrayMode
)

const maxLoggedSnippet = 200

// ExtractJSON recovers a single JSON document from a raw model reply. It is a
// best-effort heuristic, not a grammar: the model sometimes wraps its answer
// in code fences or surrounds it with commentary despite instructions not to.
//
// Order of preference: content of the first ```json fence pair, then the
// first bare ``` fence pair, then the raw text. Within the chosen text the
// slice runs from the first opening bracket to the last closing bracket of
// the requested mode, inclusive.
func ExtractJSON(raw string, mode JSONMode) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)

	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		cleaned = cleaned[idx+len("```json"):]
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	} else if idx := strings.Index(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[idx+len("```"):]
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	}

	opener, closer := "{", "}"
	if mode == ArrayMode {
		opener, closer = "[", "]"
	}

	start := strings.Index(cleaned, opener)
	end := strings.LastIndex(cleaned, closer)
	if start < 0 || end < start {
		return nil, errx.MalformedOutput(fmt.Errorf("no JSON %s found in reply: %q", modeName(mode), snippet(cleaned)))
	}

	slice := cleaned[start : end+1]

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(slice), &doc); err != nil {
		logx.Error().
			Err(err).
			Str("slice", snippet(slice)).
			Msg("Extracted slice is not valid JSON")
		return nil, errx.MalformedOutput(fmt.Errorf("parse extracted %s: %w", modeName(mode), err))
	}

	return doc, nil
}

func modeName(mode JSONMode) string {
	if mode == ArrayMode {
		return "array"
	}
	return "object"
}

// snippet bounds diagnostic output; offending text goes to logs, never to clients.
func snippet(s string) string {
	if len(s) > maxLoggedSnippet {
		return s[:maxLoggedSnippet] + "..."
	}
	return s
}
