package conform

import (
	"strings"

	"github.com/crystaldolphin/autohost/internal/normalize"
)

// Concept is one logical argument and the spellings tool schemas use for
// it. Spellings are tried in order; the first one a schema declares is
// the one that gets emitted. Aliases are extra free-form keys a model
// may produce.
type Concept struct {
	Name      string
	Spellings []string
	Aliases   []string
	// Hint extracts a value for the concept from the utterance. nil means
	// the concept is never back-filled.
	Hint func(h normalize.Hints) (any, bool)
}

// Concept names with behaviour attached elsewhere.
const (
	conceptGender = "gender"
	conceptAge    = "age"
	conceptHeight = "height"
	conceptWeight = "weight"
)

// personConcepts are packed into an opaque required params object.
var personConcepts = []string{conceptGender, conceptAge, conceptHeight, conceptWeight}

// DefaultConcepts is the alias and hint table for the automotive, trainer,
// strategy-game and utility tool families. Trainer arguments use English
// names internally; Spanish spellings are only emitted when a schema
// declares them.
func DefaultConcepts() []Concept {
	return []Concept{
		// automotive
		{Name: "price_max", Spellings: []string{"Price_max", "price_max", "max_price", "budget_max", "budget"},
			Aliases: []string{"max price", "price", "budget", "max budget", "presupuesto", "precio max", "precio maximo"},
			Hint:    func(h normalize.Hints) (any, bool) { return h.Budget, h.HasBudget }},
		{Name: "price_min", Spellings: []string{"Price_min", "price_min", "min_price"},
			Aliases: []string{"min price", "precio min", "precio minimo"}},
		{Name: "year_min", Spellings: []string{"Year_min", "year_min", "min_year"},
			Aliases: []string{"min year", "from year", "year from", "since year", "ano min", "ano minimo"},
			Hint:    func(h normalize.Hints) (any, bool) { return h.Years.Min, h.Years.HasMin() }},
		{Name: "year_max", Spellings: []string{"Year_max", "year_max", "max_year"},
			Aliases: []string{"max year", "to year", "year to", "ano max", "ano maximo"},
			Hint:    func(h normalize.Hints) (any, bool) { return h.Years.Max, h.Years.HasMax() }},
		{Name: "mileage_max", Spellings: []string{"Mileage_max", "mileage_max", "max_mileage", "km_max"},
			Aliases: []string{"max mileage", "max km", "mileage", "odometer max", "kilometraje max", "kilometraje maximo"},
			Hint:    func(h normalize.Hints) (any, bool) { return h.Mileage, h.HasMileage }},
		{Name: "make", Spellings: []string{"Car Make", "make", "brand"},
			Aliases: []string{"car make", "car brand", "marca"}},
		{Name: "model", Spellings: []string{"Car Model", "model"},
			Aliases: []string{"car model", "modelo"}},
		{Name: "fuel", Spellings: []string{"Fuel Type", "fuel_type", "fuel"},
			Aliases: []string{"fuel type", "fueltype", "combustible", "tipo de combustible"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Auto.FuelType })},
		{Name: "transmission", Spellings: []string{"Transmission", "transmission"},
			Aliases: []string{"gearbox", "transmision", "caja"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Auto.Transmission })},
		{Name: "condition", Spellings: []string{"Condition", "condition"},
			Aliases: []string{"estado", "car condition"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Auto.Condition })},
		{Name: "accident", Spellings: []string{"Accident", "accident"},
			Aliases: []string{"accidents", "accidente", "accident history"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Auto.Accident })},
		{Name: "body_style", Spellings: []string{"Body Style", "body_style", "body_type"},
			Aliases: []string{"body", "carroceria"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Auto.BodyStyle })},

		// result count, shared by every family
		{Name: "limit", Spellings: []string{"limit", "limite", "top_n", "n"},
			Aliases: []string{"count", "top", "max results", "num results", "number of results", "k"},
			Hint:    intHint(func(h normalize.Hints) int { return h.Trainer.Limit })},

		// trainer
		{Name: conceptGender, Spellings: []string{"gender", "sexo", "sex"},
			Aliases: []string{"genero"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Person.Gender })},
		{Name: conceptAge, Spellings: []string{"age", "edad"},
			Hint: intHint(func(h normalize.Hints) int { return h.Person.Age })},
		{Name: conceptHeight, Spellings: []string{"height_cm", "altura_cm", "height", "altura"},
			Aliases: []string{"estatura", "height in cm"},
			Hint:    floatHint(func(h normalize.Hints) float64 { return h.Person.HeightCM })},
		{Name: conceptWeight, Spellings: []string{"weight_kg", "peso_kg", "weight", "peso"},
			Aliases: []string{"weight in kg", "masa"},
			Hint:    floatHint(func(h normalize.Hints) float64 { return h.Person.WeightKG })},
		{Name: "goal", Spellings: []string{"goal", "objetivo"},
			Aliases: []string{"objective", "meta", "target"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Trainer.Goal })},
		{Name: "sport", Spellings: []string{"sport", "deporte"},
			Hint: textHint(func(h normalize.Hints) string { return h.Trainer.Sport })},
		{Name: "days_per_week", Spellings: []string{"days_per_week", "dias_por_semana", "days"},
			Aliases: []string{"dias", "sessions per week", "frequency", "frecuencia"},
			Hint:    intHint(func(h normalize.Hints) int { return h.Trainer.DaysPerWeek })},
		{Name: "minutes_per_session", Spellings: []string{"minutes_per_session", "minutos_por_sesion", "minutes"},
			Aliases: []string{"minutos", "session minutes", "duration", "duracion"},
			Hint:    intHint(func(h normalize.Hints) int { return h.Trainer.MinutesPerSession })},
		{Name: "experience", Spellings: []string{"experience", "experiencia", "level", "nivel"},
			Aliases: []string{"experience level", "fitness level"},
			Hint:    textHint(func(h normalize.Hints) string { return h.Trainer.Experience })},

		// strategy game
		{Name: "include_types", Spellings: []string{"include_types", "types"},
			Aliases: []string{"tipos", "pokemon types"},
			Hint:    listHint(func(h normalize.Hints) []string { return h.Pokemon.IncludeTypes })},
		{Name: "min_speed", Spellings: []string{"min_speed", "speed_min"},
			Aliases: []string{"minimum speed", "velocidad minima"},
			Hint:    intHint(func(h normalize.Hints) int { return h.Pokemon.MinSpeed })},
		{Name: "require_abilities", Spellings: []string{"require_abilities", "abilities"},
			Aliases: []string{"required abilities", "habilidades"},
			Hint:    listHint(func(h normalize.Hints) []string { return h.Pokemon.RequireAbilities })},

		// utility
		{Name: "text", Spellings: []string{"text", "message"},
			Aliases: []string{"texto", "mensaje"}},
	}
}

// normKey lowercases, folds accents and turns underscores and hyphens into
// spaces: "Fuel_Type" and "fuel type" compare equal.
func normKey(k string) string {
	k = normalize.Fold(strings.TrimSpace(k))
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	return strings.Join(strings.Fields(k), " ")
}

func textHint(get func(normalize.Hints) string) func(normalize.Hints) (any, bool) {
	return func(h normalize.Hints) (any, bool) {
		v := get(h)
		return v, v != ""
	}
}

func intHint(get func(normalize.Hints) int) func(normalize.Hints) (any, bool) {
	return func(h normalize.Hints) (any, bool) {
		v := get(h)
		return v, v != 0
	}
}

func floatHint(get func(normalize.Hints) float64) func(normalize.Hints) (any, bool) {
	return func(h normalize.Hints) (any, bool) {
		v := get(h)
		return v, v != 0
	}
}

func listHint(get func(normalize.Hints) []string) func(normalize.Hints) (any, bool) {
	return func(h normalize.Hints) (any, bool) {
		v := get(h)
		if len(v) == 0 {
			return nil, false
		}
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
}
