package llm

import (
	"encoding/json"
	"strings"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// ExtractJSONObject recovers a JSON object from model output that may be
// wrapped in markdown fences or surrounded by commentary. The ladder is:
// strict parse, fence stripping, first-{ to last-} bounding, whitespace
// normalization. When every step fails it returns an empty map, never nil.
func ExtractJSONObject(text string) map[string]any {
	if obj, ok := parseObject(text); ok {
		return obj
	}

	stripped := strings.TrimSpace(fenceReplacer.Replace(text))
	if obj, ok := parseObject(stripped); ok {
		return obj
	}

	candidate, found := braceBounded(stripped)
	if !found {
		return map[string]any{}
	}
	if obj, ok := parseObject(candidate); ok {
		return obj
	}

	if obj, ok := parseObject(normalizeWhitespace(candidate)); ok {
		return obj
	}

	return map[string]any{}
}

// braceBounded returns the text between the first '{' and the last '}' inclusive
func braceBounded(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// normalizeWhitespace collapses runs of whitespace, including raw newlines and
// tabs inside string literals that strict JSON rejects, to single spaces
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
