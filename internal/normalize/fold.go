// Package normalize extracts typed hints from free-form English and Spanish
// utterances. Every function is pure and reports absence explicitly.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases text and strips combining marks so that "Diésel",
// "pokémon" and "años" match plain ASCII keyword tables.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// Keywords is an ordered list of words or phrases matched on word
// boundaries against folded text.
type Keywords struct {
	words []string
	re    *regexp.Regexp
}

// NewKeywords compiles a keyword set. Boundaries are only enforced on
// edges that are word characters, so "≤" or "+" still match.
func NewKeywords(words ...string) Keywords {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		q := regexp.QuoteMeta(w)
		if isWordRune(firstRune(w)) {
			q = `\b` + q
		}
		if isWordRune(lastRune(w)) {
			q += `\b`
		}
		parts = append(parts, q)
	}
	return Keywords{words: words, re: regexp.MustCompile(`(?:` + strings.Join(parts, "|") + `)`)}
}

// Match reports whether any keyword occurs in already folded text.
func (k Keywords) Match(folded string) bool {
	return len(k.words) > 0 && k.re.MatchString(folded)
}

// rule maps a keyword set to a canonical value. Tables of rules are
// evaluated in order and the first match wins.
type rule struct {
	value string
	words Keywords
}

func firstMatch(folded string, rules []rule) (string, bool) {
	for _, r := range rules {
		if r.words.Match(folded) {
			return r.value, true
		}
	}
	return "", false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

var europeanThousands = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)

// parseAmount parses "12,500", "12.500", "12.5" or "60" with an optional
// thousands multiplier.
func parseAmount(num string, thousands bool) (float64, bool) {
	num = strings.TrimSpace(num)
	if num == "" {
		return 0, false
	}
	switch {
	case strings.Contains(num, ","):
		num = strings.ReplaceAll(num, ",", "")
	case europeanThousands.MatchString(num) && !thousands:
		num = strings.ReplaceAll(num, ".", "")
	}
	num = strings.TrimRight(num, ".")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if thousands {
		v *= 1000
	}
	return v, true
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
