package conform

import (
	"regexp"
	"strings"

	"github.com/crystaldolphin/autohost/internal/normalize"
)

const (
	teamKey      = "team"
	trickRoomKey = "trick_room"
)

var (
	trickRoomNegated = regexp.MustCompile(`\b(?:no|not|without|sin|avoid|avoiding|evitar|non)\s*(?:use\s+|using\s+|usar\s+|a\s+)?-?\s*trick\s*-?\s*room\b`)
	trickRoomWanted  = regexp.MustCompile(`\btrick\s*-?\s*room\b`)
)

// repairDomainValues fixes values tools are known to reject.
func repairDomainValues(w *working, text string) {
	for _, m := range []map[string]any{w.root, w.params} {
		for k, v := range m {
			if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "petrol") {
				m[k] = "Gasoline"
			}
		}
	}

	if v, ok := w.lookup(teamKey); ok {
		if team, changed := teamObject(v); changed {
			w.update(teamKey, team)
		}
	}

	if declared(w.schema, trickRoomKey) {
		if on, mentioned := trickRoom(text); mentioned {
			if _, ok := w.lookup(trickRoomKey); ok {
				w.update(trickRoomKey, on)
			} else {
				w.place(trickRoomKey, on)
			}
		}
	}
}

// teamObject turns a bare list of names or members into
// {"pokemon": [{"name": ...}, ...]}.
func teamObject(v any) (map[string]any, bool) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		return nil, false
	}
	members := make([]any, 0, len(items))
	for _, it := range items {
		switch m := it.(type) {
		case string:
			members = append(members, map[string]any{"name": m})
		case map[string]any:
			members = append(members, m)
		}
	}
	return map[string]any{"pokemon": members}, true
}

// trickRoom reports the requested strategy when the utterance mentions
// trick room at all. Negations take precedence.
func trickRoom(text string) (on, mentioned bool) {
	t := normalize.Fold(text)
	switch {
	case trickRoomNegated.MatchString(t):
		return false, true
	case trickRoomWanted.MatchString(t):
		return true, true
	}
	return false, false
}
