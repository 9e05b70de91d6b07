package image

import (
	"encoding/json"
	"strings"
)

// ParseTags accepts either a JSON-encoded array of strings or a
// comma-separated list. Historical clients send both formats, so anything
// that is not a valid JSON string array falls back to comma splitting with
// trimmed segments. Parsing never fails: unparseable input degrades to
// whatever the comma split yields, and empty input yields an empty slice.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		if tags == nil {
			return []string{}
		}
		return tags
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
