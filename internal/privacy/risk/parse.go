package risk

import (
	"encoding/json"
	"strings"
)

// verdict is the JSON object the collaborator is asked to return. Anything
// else it sends back is treated as a malformed response, never as an error.
type verdict struct {
	RiskLevel     string `json:"risk_level"`
	RephrasedText string `json:"rephrased_text"`
}

// extractVerdict digs a verdict out of raw model output. Models wrap JSON in
// code fences, prepend prose, or append commentary; the extraction strips a
// surrounding fence, then isolates the substring from the first '{' to the
// last '}' before parsing. The cleaned substring is returned either way so the
// caller's parse-failure heuristic can inspect it.
func extractVerdict(raw string) (v verdict, cleaned string, ok bool) {
	cleaned = strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		lines := strings.Split(cleaned, "\n")
		if len(lines) > 2 {
			cleaned = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}

	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}

	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return verdict{}, cleaned, false
	}
	return v, cleaned, true
}

// normalizeLevel whitelists the collaborator's risk level. Anything that is
// not exactly high or low (after lowercasing) becomes unknown.
func normalizeLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LevelHigh):
		return LevelHigh
	case string(LevelLow):
		return LevelLow
	default:
		return LevelUnknown
	}
}
