package enrichment

import (
	"encoding/json"
	"strings"
)

const (
	maxHighlights      = 4
	maxHighlightLength = 80
)

// ParseHighlights parses the chat service response for highlight extraction.
// The expected shape is a JSON array of strings; when the model replies with
// prose or a bullet list instead, a line-based heuristic recovers the
// phrases. The result is capped at 4 items.
func ParseHighlights(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	// Models often wrap JSON in a code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed []string
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		return sanitizeHighlights(parsed)
	}

	return sanitizeHighlights(strings.Split(content, "\n"))
}

// sanitizeHighlights strips bullet and quote characters, drops empty or
// overlong entries, and caps the list.
func sanitizeHighlights(raw []string) []string {
	highlights := make([]string, 0, maxHighlights)

	for _, line := range raw {
		line = strings.TrimSpace(line)
		line = stripBullet(line)
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)

		if line == "" || len(line) > maxHighlightLength {
			continue
		}

		highlights = append(highlights, line)
		if len(highlights) == maxHighlights {
			break
		}
	}

	return highlights
}

// stripBullet removes a leading list marker: "-", "*", "•", or "1." / "1)".
func stripBullet(line string) string {
	for _, prefix := range []string{"-", "*", "•"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}

	// Numbered list markers.
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}

	return line
}
