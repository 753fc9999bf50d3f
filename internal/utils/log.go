package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// PreviewForLog collapses all whitespace runs (newlines included) into single
// spaces and truncates the result, so multi-line document text fits one log field.
func PreviewForLog(s string, limit int) string {
	return TruncateForLog(strings.Join(strings.Fields(s), " "), limit)
}
