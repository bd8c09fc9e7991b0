package normalize

import (
	"math"
	"regexp"
	"strconv"
)

// Person holds body metrics in SI units. Zero values are absent.
type Person struct {
	Gender   string
	Age      int
	HeightCM float64
	WeightKG float64
}

// IsZero reports whether no metric was found.
func (p Person) IsZero() bool { return p == Person{} }

var (
	genderRules = []rule{
		{"male", NewKeywords("male", "man", "masculino", "hombre")},
		{"female", NewKeywords("female", "woman", "femenino", "mujer")},
	}

	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bage\s*[:\-]?\s*(\d{1,3})\b`),
		regexp.MustCompile(`\b(\d{1,3})\s*(?:years|year|yo|y/o|anos|ano)\b`),
		regexp.MustCompile(`\bedad\s*[:\-]?\s*(\d{1,3})\b`),
	}
	heightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bheight\s*[:\-]?\s*(\d{2,3}(?:\.\d+)?)\s*cm\b`),
		regexp.MustCompile(`\baltura\s*[:\-]?\s*(\d{2,3}(?:\.\d+)?)\s*cm\b`),
		regexp.MustCompile(`\b(\d{2,3}(?:\.\d+)?)\s*cm\b`),
	}
	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bweight\s*[:\-]?\s*(\d{2,3}(?:\.\d+)?)\s*kg\b`),
		regexp.MustCompile(`\bpeso\s*[:\-]?\s*(\d{2,3}(?:\.\d+)?)\s*kg\b`),
		regexp.MustCompile(`\b(\d{2,3}(?:\.\d+)?)\s*kgs?\b`),
	}

	feetInches = []*regexp.Regexp{
		regexp.MustCompile(`(\d)\s*['’]\s*(\d{1,2})\s*(?:"|”|'')?`),
		regexp.MustCompile(`(\d)\s*(?:ft|feet|foot)\s*(\d{1,2})\s*(?:in|inches)?\b`),
	}
	pounds = regexp.MustCompile(`\b(\d{2,3}(?:\.\d+)?)\s*(?:lb|lbs|pounds?)\b`)
)

// PersonMetrics reads gender, age, height and weight. Metric units are preferred;
// feet/inches and pounds are the fallback, rounded to one decimal.
func PersonMetrics(text string) Person {
	t := Fold(text)
	var p Person
	p.Gender, _ = firstMatch(t, genderRules)
	if m := firstSubmatch(t, agePatterns); m != "" {
		p.Age, _ = atoi(m)
	}
	if m := firstSubmatch(t, heightPatterns); m != "" {
		p.HeightCM = parseFloat(m)
	}
	if m := firstSubmatch(t, weightPatterns); m != "" {
		p.WeightKG = parseFloat(m)
	}
	h, w := Imperial(text)
	if p.HeightCM == 0 {
		p.HeightCM = h
	}
	if p.WeightKG == 0 {
		p.WeightKG = w
	}
	return p
}

// Imperial converts 5'9" / 5 ft 9 in to centimetres and lb to kilograms.
// Zero means not present.
func Imperial(text string) (heightCM, weightKG float64) {
	t := Fold(text)
	for _, re := range feetInches {
		if m := re.FindStringSubmatch(t); m != nil {
			ft, _ := atoi(m[1])
			in, _ := atoi(m[2])
			heightCM = round1(float64(ft)*30.48 + float64(in)*2.54)
			break
		}
	}
	if m := pounds.FindStringSubmatch(t); m != nil {
		weightKG = round1(parseFloat(m[1]) * 0.453592)
	}
	return heightCM, weightKG
}

// Trainer is the workout context of a request. Empty or zero fields are
// absent.
type Trainer struct {
	Goal              string
	Sport             string
	DaysPerWeek       int
	MinutesPerSession int
	Experience        string
	Limit             int
}

// IsZero reports whether nothing was found.
func (t Trainer) IsZero() bool { return t == Trainer{} }

var (
	goalRules = []struct {
		value string
		re    *regexp.Regexp
	}{
		{"fat loss", regexp.MustCompile(`\b(?:fat\s*loss|lose\s*fat|weight\s*loss|burn\s*fat|perder\s*grasa|bajar\s*grasa)\b`)},
		{"gain muscle mass", regexp.MustCompile(`\b(?:(?:gain(?:ing)?|build(?:ing)?|put on|add)\s+(?:muscle|masa muscular|size)|hypertrophy|hipertrofia|bulk(?:\s*up)?|(?:ganar|aumentar)\s+(?:musculo|masa muscular))\b`)},
		{"endurance", regexp.MustCompile(`\b(?:endurance|stamina|resistencia)\b`)},
		{"strength", regexp.MustCompile(`\b(?:strength|fuerza)\b`)},
	}
	sportRules = []rule{
		{"running", NewKeywords("running", "run", "correr")},
		{"calisthenics", NewKeywords("calisthenics", "calistenia", "bodyweight")},
		{"cycling", NewKeywords("cycling", "bike", "bici", "ciclismo")},
		{"powerlifting", NewKeywords("powerlifting")},
		{"volleyball", NewKeywords("volleyball", "voleibol")},
		{"boxing", NewKeywords("boxing", "box", "boxeo")},
		{"swimming", NewKeywords("swimming", "swim", "natacion")},
		{"soccer", NewKeywords("soccer", "football", "futbol")},
	}
	experienceRules = []rule{
		{"beginner", NewKeywords("beginner", "novice", "principiante", "novato")},
		{"intermediate", NewKeywords("intermediate", "intermedio", "intermedia")},
		{"advanced", NewKeywords("advanced", "avanzado", "avanzada")},
	}

	daysPerWeek     = regexp.MustCompile(`\b(\d{1,2})\s*(?:days?|dias?)\b`)
	sessionsPerWeek = regexp.MustCompile(`\b(\d{1,2})\s*(?:sessions?|workouts?|entrenamientos?)\b`)
	minutesSession  = regexp.MustCompile(`\b(\d{1,3})\s*(?:min|mins|minutes|minutos)\b`)
	explicitLimit   = regexp.MustCompile(`\b(?:limit|limite|max(?:imo)?)\s*[:=]?\s*(\d{1,2})\b`)
)

// TrainerContext reads the training goal, sport, schedule, experience and
// result limit. "N sessions per week" overrides "N days".
func TrainerContext(text string) Trainer {
	t := Fold(text)
	var tr Trainer
	for _, g := range goalRules {
		if g.re.MatchString(t) {
			tr.Goal = g.value
			break
		}
	}
	tr.Sport, _ = firstMatch(t, sportRules)
	if m := daysPerWeek.FindStringSubmatch(t); m != nil {
		tr.DaysPerWeek, _ = atoi(m[1])
	}
	if m := sessionsPerWeek.FindStringSubmatch(t); m != nil {
		tr.DaysPerWeek, _ = atoi(m[1])
	}
	if m := minutesSession.FindStringSubmatch(t); m != nil {
		tr.MinutesPerSession, _ = atoi(m[1])
	}
	tr.Experience, _ = firstMatch(t, experienceRules)
	if m := explicitLimit.FindStringSubmatch(t); m != nil {
		tr.Limit, _ = atoi(m[1])
	} else if n, ok := Count(text); ok {
		tr.Limit = n
	}
	return tr
}

func firstSubmatch(t string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(t); m != nil {
			return m[1]
		}
	}
	return ""
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
