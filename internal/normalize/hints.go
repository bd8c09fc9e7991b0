package normalize

// Hints bundles every extractor's result for one utterance.
type Hints struct {
	Budget     int
	HasBudget  bool
	Mileage    int
	HasMileage bool
	Count      int
	HasCount   bool
	Years      Years
	Auto       AutoHints
	Person     Person
	Trainer    Trainer
	Pokemon    Pokemon
}

// Extract runs every extractor once over text.
func Extract(text string) Hints {
	var h Hints
	h.Budget, h.HasBudget = Budget(text)
	h.Mileage, h.HasMileage = MileageMax(text)
	h.Count, h.HasCount = Count(text)
	h.Years = YearRange(text)
	h.Auto = Auto(text)
	h.Person = PersonMetrics(text)
	h.Trainer = TrainerContext(text)
	h.Pokemon = PokemonConstraints(text)
	return h
}

// WantsCarFilters reports whether the utterance carries any filter that a
// broad "top cars" listing would ignore.
func (h Hints) WantsCarFilters() bool {
	return h.HasBudget || h.HasMileage || !h.Years.IsZero() ||
		h.Auto.FuelType != "" || h.Auto.Transmission != "" || h.Auto.Accident != ""
}
