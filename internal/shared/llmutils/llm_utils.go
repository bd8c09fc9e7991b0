package llmutils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reFence = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
)

// Truncate shortens a string to at most n characters, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return reThink.ReplaceAllString(s, "")
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// DecodeObject pulls one JSON object out of a model reply. It tolerates
// think blocks, code fences, prose around the object and trailing garbage.
func DecodeObject(reply string) (map[string]any, bool) {
	s := strings.TrimSpace(StripThink(reply))
	if m := reFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if out, ok := unmarshalObject(s); ok {
		return out, true
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return unmarshalObject(s[start : end+1])
}

func unmarshalObject(s string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}
