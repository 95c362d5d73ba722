package utils

import "strings"

// TruncateForLog flattens whitespace in s to single spaces and cuts it to limit
// runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	flat := strings.Join(strings.Fields(s), " ")

	count := 0
	for i := range flat {
		if count == limit {
			return flat[:i] + "..."
		}
		count++
	}

	return flat
}
