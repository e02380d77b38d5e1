package llm

import "strings"

// ExtractJSON returns the outermost JSON object inside a model response,
// tolerating markdown fences and surrounding prose. When no braces are
// present it returns an empty string so callers can surface a helpful error.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end >= start {
		return raw[start : end+1]
	}
	return ""
}
