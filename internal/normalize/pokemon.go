package normalize

import (
	"regexp"
	"sort"
	"strconv"
)

// Pokemon are team-building constraints. Empty fields are absent.
type Pokemon struct {
	IncludeTypes     []string
	MinSpeed         int
	RequireAbilities []string
}

// IsZero reports whether no constraint was found.
func (p Pokemon) IsZero() bool {
	return len(p.IncludeTypes) == 0 && p.MinSpeed == 0 && len(p.RequireAbilities) == 0
}

var pokemonTypes = map[string]string{
	"normal": "normal", "fire": "fire", "water": "water", "electric": "electric",
	"grass": "grass", "ice": "ice", "fighting": "fighting", "poison": "poison",
	"ground": "ground", "flying": "flying", "psychic": "psychic", "bug": "bug",
	"rock": "rock", "ghost": "ghost", "dragon": "dragon", "dark": "dark",
	"steel": "steel", "fairy": "fairy",

	"fuego": "fire", "agua": "water", "electrico": "electric", "planta": "grass",
	"hielo": "ice", "lucha": "fighting", "veneno": "poison", "tierra": "ground",
	"volador": "flying", "psiquico": "psychic", "bicho": "bug", "roca": "rock",
	"fantasma": "ghost", "siniestro": "dark", "acero": "steel", "hada": "fairy",
}

var abilityRules = []rule{
	{"Levitate", NewKeywords("levitate", "levitar", "levitacion")},
	{"Intimidate", NewKeywords("intimidate", "intimidacion")},
	{"Prankster", NewKeywords("prankster", "bromista")},
}

var (
	typeToken = regexp.MustCompile(`[a-z]+`)

	minSpeedInclusive = []*regexp.Regexp{
		regexp.MustCompile(`\bmin(?:imum)?\s*(?:speed|spe)\s*[:=]?\s*(\d{2,3})\b`),
		regexp.MustCompile(`\b(?:speed|spe)\s*(?:>=|≥)\s*(\d{2,3})\b`),
		regexp.MustCompile(`\b(?:speed|spe)\s*(\d{2,3})\s*(?:\+|or\s+more|or\s+higher)`),
		regexp.MustCompile(`\bat\s*least\s*(\d{2,3})\b`),
		regexp.MustCompile(`\b(\d{2,3})\s*(?:speed|spe)\s*(?:or\s+more|or\s+higher|\+)`),
	}
	minSpeedStrict = []*regexp.Regexp{
		regexp.MustCompile(`\bfaster\s+than\s*(\d{2,3})\b`),
		regexp.MustCompile(`\b(?:speed|spe)\s*(?:>|over|above)\s*(\d{2,3})\b`),
	}
)

// PokemonConstraints reads types (sorted, Spanish aliases folded to
// English), a minimum speed and required abilities. Strict bounds such as
// "faster than 100" become 101.
func PokemonConstraints(text string) Pokemon {
	t := Fold(text)
	var p Pokemon

	seen := map[string]bool{}
	for _, tok := range typeToken.FindAllString(t, -1) {
		if canon, ok := pokemonTypes[tok]; ok && !seen[canon] {
			seen[canon] = true
			p.IncludeTypes = append(p.IncludeTypes, canon)
		}
	}
	sort.Strings(p.IncludeTypes)

	if m := firstSubmatch(t, minSpeedInclusive); m != "" {
		p.MinSpeed, _ = strconv.Atoi(m)
	} else if m := firstSubmatch(t, minSpeedStrict); m != "" {
		n, _ := strconv.Atoi(m)
		p.MinSpeed = n + 1
	}

	for _, r := range abilityRules {
		if r.words.Match(t) {
			p.RequireAbilities = append(p.RequireAbilities, r.value)
		}
	}
	sort.Strings(p.RequireAbilities)
	return p
}
