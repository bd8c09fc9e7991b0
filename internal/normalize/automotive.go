package normalize

import (
	"math"
	"regexp"
	"strings"
)

const milesToKm = 1.60934

// LowMileageKm is the ceiling assumed for a bare "low mileage" request.
const LowMileageKm = 60000

var (
	amountNum = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

	budgetPrefix = regexp.MustCompile(`(?:\$|\busd\b)\s*` + amountNum + `(\s?k\b)?`)
	budgetSuffix = regexp.MustCompile(`\b` + amountNum + `(\s?k)?\s*(?:\$|\busd\b|\bdollars?\b)`)
)

// Budget returns a USD ceiling only when a currency marker ($, usd,
// dollar/dollars) sits next to the number.
func Budget(text string) (int, bool) {
	t := Fold(text)
	for _, re := range []*regexp.Regexp{budgetPrefix, budgetSuffix} {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		v, ok := parseAmount(m[1], strings.TrimSpace(m[2]) == "k")
		if !ok || v <= 0 {
			continue
		}
		return int(math.Round(v)), true
	}
	return 0, false
}

// Years is an inclusive model-year range. A zero bound is absent.
type Years struct {
	Min int
	Max int
}

func (y Years) HasMin() bool { return y.Min != 0 }
func (y Years) HasMax() bool { return y.Max != 0 }
func (y Years) IsZero() bool { return y.Min == 0 && y.Max == 0 }

const yearPat = `((?:19|20)\d{2})`

var (
	yearsDash    = regexp.MustCompile(`\b` + yearPat + `\s*[–-]\s*` + yearPat + `\b`)
	yearsBetween = regexp.MustCompile(`\b(?:from|between|entre|de)\s+` + yearPat + `\s+(?:to|and|through|thru|a|y|hasta)\s+` + yearPat + `\b`)
	yearsMin     = []*regexp.Regexp{
		regexp.MustCompile(`\b` + yearPat + `\s*\+`),
		regexp.MustCompile(`\b(?:since|after|desde|from)\s+` + yearPat + `\b`),
		regexp.MustCompile(`(?:>=|≥)\s*` + yearPat + `\b`),
		regexp.MustCompile(`\b` + yearPat + `\s+(?:and|or)\s+(?:newer|later)\b`),
		regexp.MustCompile(`\b(?:newer|later)\s+than\s+` + yearPat + `\b`),
	}
	yearsMax = []*regexp.Regexp{
		regexp.MustCompile(`(?:<=|≤|\btill|\buntil|\bup to|\bthrough|\bhasta)\s*` + yearPat + `\b`),
		regexp.MustCompile(`\b` + yearPat + `\s+(?:and|or)\s+(?:older|earlier)\b`),
		regexp.MustCompile(`\b(?:older|earlier)\s+than\s+` + yearPat + `\b`),
	}
)

// YearRange reads explicit ranges first, then open-lower and open-upper
// bounds. Explicit ranges are always returned as (min, max).
func YearRange(text string) Years {
	t := Fold(text)
	for _, re := range []*regexp.Regexp{yearsDash, yearsBetween} {
		if m := re.FindStringSubmatch(t); m != nil {
			a, _ := atoi(m[1])
			b, _ := atoi(m[2])
			if a > b {
				a, b = b, a
			}
			return Years{Min: a, Max: b}
		}
	}
	var y Years
	for _, re := range yearsMin {
		if m := re.FindStringSubmatch(t); m != nil {
			y.Min, _ = atoi(m[1])
			break
		}
	}
	for _, re := range yearsMax {
		if m := re.FindStringSubmatch(t); m != nil {
			y.Max, _ = atoi(m[1])
			break
		}
	}
	if y.HasMin() && y.HasMax() && y.Min > y.Max {
		y.Min, y.Max = y.Max, y.Min
	}
	return y
}

var (
	distNum   = `(\d[\d,\.]*)(\s?k\b)?`
	distUnit  = `(kilometers|kilometres|kilometer|kilometre|kms|km|miles|mile|mi)\b`
	distBound = `(?:≤|<=|<|\bunder|\bless than|\bbelow|\bmenos de|\bmax(?:imum)?)`
	distKey   = `\b(?:mileage|odometer|odo|kilometraje)\b`

	mileagePatterns = []*regexp.Regexp{
		regexp.MustCompile(distBound + `\s*` + distNum + `\s*` + distUnit),
		regexp.MustCompile(`\b` + distNum + `\s*` + distUnit + `\s*(?:max(?:imum)?|or less|at most)\b`),
		regexp.MustCompile(distKey + `\s*(?:of|is|:)?\s*` + distBound + `?\s*` + distNum + `\s*(?:` + distUnit + `)?`),
	}
	lowMileage = NewKeywords("low mileage", "low miles", "poco kilometraje", "bajo kilometraje")
)

// MileageMax returns an odometer ceiling in kilometres. Miles are
// converted with round(n × 1.60934).
func MileageMax(text string) (int, bool) {
	t := Fold(text)
	for _, re := range mileagePatterns {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		v, ok := parseAmount(m[1], strings.TrimSpace(m[2]) == "k")
		if !ok || v <= 0 {
			continue
		}
		if isMiles(m[3]) {
			v *= milesToKm
		}
		return int(math.Round(v)), true
	}
	if lowMileage.Match(t) {
		return LowMileageKm, true
	}
	return 0, false
}

func isMiles(unit string) bool {
	switch unit {
	case "mi", "mile", "miles":
		return true
	}
	return false
}

var (
	countLead  = regexp.MustCompile(`\b(?:top|best|show|list|up to|give me|dame|muestrame)\s*(\d{1,2})\b`)
	countTrail = regexp.MustCompile(`\b(\d{1,2})\s*(?:results|cars|options|vehiculos?|recommendations|recs|exercises|ejercicios|items|candidates|pokemon)\b`)
)

// Count returns a requested result count such as "top 5" or "3 cars".
func Count(text string) (int, bool) {
	t := Fold(text)
	for _, re := range []*regexp.Regexp{countLead, countTrail} {
		if m := re.FindStringSubmatch(t); m != nil {
			if n, ok := atoi(m[1]); ok && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// AutoHints are categorical car filters. Empty fields are absent.
type AutoHints struct {
	FuelType     string
	Transmission string
	Condition    string
	Accident     string
	BodyStyle    string
}

var (
	fuelRules = []rule{
		{"Diesel", NewKeywords("diesel")},
		{"Hybrid", NewKeywords("hybrid", "hibrido", "hybrids")},
		{"Electric", NewKeywords("electric", "ev", "evs", "electrico")},
		{"Gasoline", NewKeywords("gasoline", "gas", "petrol", "nafta", "gasolina")},
	}
	transmissionRules = []rule{
		{"Automatic", NewKeywords("automatic", "automatico", "automatica", "auto transmission")},
		{"Manual", NewKeywords("manual", "stick", "stick shift", "estandar")},
	}
	conditionRules = []rule{
		{"Like New", NewKeywords("like new", "como nuevo")},
		{"New", NewKeywords("new", "nuevo", "nuevos")},
		{"Used", NewKeywords("used", "usado", "usados", "second hand", "pre-owned")},
	}
	accidentFree = NewKeywords("accident-free", "accident free", "no accidents", "no accident",
		"without accidents", "sin accidentes", "clean history", "safest", "safety")
	bodyRules = []rule{
		{"SUV", NewKeywords("suv", "suvs", "crossover")},
		{"Truck", NewKeywords("truck", "trucks", "pickup", "pick-up", "camioneta")},
		{"Sedan", NewKeywords("sedan", "sedans")},
		{"Hatchback", NewKeywords("hatchback", "hatch")},
		{"Wagon", NewKeywords("wagon", "station wagon")},
		{"Van", NewKeywords("van", "minivan")},
	}
)

// Auto reads categorical car preferences. Within a field the first rule
// in priority order wins (diesel before hybrid before electric before
// gasoline).
func Auto(text string) AutoHints {
	t := Fold(text)
	var h AutoHints
	h.FuelType, _ = firstMatch(t, fuelRules)
	h.Transmission, _ = firstMatch(t, transmissionRules)
	h.Condition, _ = firstMatch(t, conditionRules)
	if accidentFree.Match(t) {
		h.Accident = "No"
	}
	h.BodyStyle, _ = firstMatch(t, bodyRules)
	return h
}

// IsZero reports whether no categorical hint was found.
func (h AutoHints) IsZero() bool { return h == AutoHints{} }
