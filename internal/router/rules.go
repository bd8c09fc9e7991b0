package router

import (
	"github.com/crystaldolphin/autohost/internal/normalize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

// Category guards privileged servers: a proposal for one of Servers is
// only accepted when the utterance contains one of Keywords.
type Category struct {
	Name     string
	Servers  []string
	Keywords normalize.Keywords
}

// DefaultCategories guards filesystem and git servers.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:    "filesystem",
			Servers: []string{"filesystem"},
			Keywords: normalize.NewKeywords("file", "files", "open", "read", "path", "folder",
				"directory", "list files", "ls", "contenido", "archivo", "archivos", "carpeta", "ruta"),
		},
		{
			Name:    "git",
			Servers: []string{"git"},
			Keywords: normalize.NewKeywords("git", "commit", "commits", "branch", "push", "pull",
				"merge", "rebase", "repo", "repository", "tag", "staging"),
		},
	}
}

// Rule is one keyword heuristic. Every group in AllOf must match; the
// first of Targets present in the catalog is selected.
type Rule struct {
	Name    string
	AllOf   []normalize.Keywords
	Targets []string
}

var (
	kwPokemon = normalize.NewKeywords("pokemon", "vgc")
	kwCars    = normalize.NewKeywords("car", "cars", "auto", "autos", "coche", "coches", "vehicle", "vehicles",
		"vehiculo", "vehiculos", "mileage", "diesel", "gasoline", "hybrid", "accident", "price", "budget",
		"cheap", "expensive", "safest", "seguro")
)

// DefaultRules is the ordered repair table. Rules are data: callers may
// supply their own through WithRules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "training-routine",
			AllOf:   []normalize.Keywords{normalize.NewKeywords("routine", "rutina", "workout plan", "training plan", "plan de entrenamiento")},
			Targets: []string{"chatbot_server.build_routine_tool"},
		},
		{
			Name:    "exercises",
			AllOf:   []normalize.Keywords{normalize.NewKeywords("exercise", "exercises", "ejercicio", "ejercicios")},
			Targets: []string{"chatbot_server.recommend_exercises"},
		},
		{
			Name: "body-metrics",
			AllOf: []normalize.Keywords{normalize.NewKeywords("bmi", "bmr", "height", "weight", "peso",
				"altura", "edad", "calories", "calorias", "metabolism", "metabolismo")},
			Targets: []string{"chatbot_server.compute_metrics"},
		},
		{
			Name: "pokemon-team",
			AllOf: []normalize.Keywords{kwPokemon,
				normalize.NewKeywords("team", "equipo", "balanced", "trick room", "trickroom")},
			Targets: []string{"pokevgc.suggest_team"},
		},
		{
			Name:    "pokemon-member",
			AllOf:   []normalize.Keywords{kwPokemon},
			Targets: []string{"pokevgc.suggest_member", "pokevgc.pool.filter"},
		},
		{
			Name:    "car-average-price",
			AllOf:   []normalize.Keywords{kwCars, normalize.NewKeywords("average", "promedio", "mean")},
			Targets: []string{"auto_advisor.average_price"},
		},
		{
			Name:    "car-recommend",
			AllOf:   []normalize.Keywords{kwCars, normalize.NewKeywords("recommend", "recomendar", "recomienda", "budget", "barato", "cheap")},
			Targets: []string{"auto_advisor.recommend"},
		},
		{
			Name:    "car-safety",
			AllOf:   []normalize.Keywords{kwCars, normalize.NewKeywords("safe", "safest", "accident", "accidents", "seguro")},
			Targets: []string{"auto_advisor.filter_cars"},
		},
		{
			Name:    "car-filter",
			AllOf:   []normalize.Keywords{kwCars},
			Targets: []string{"auto_advisor.filter_cars"},
		},
	}
}

func (rule Rule) matches(folded string) bool {
	if len(rule.AllOf) == 0 {
		return false
	}
	for _, kw := range rule.AllOf {
		if !kw.Match(folded) {
			return false
		}
	}
	return true
}

// QuickCommand is a literal trigger that overrides any other resolution.
// Tool is matched by name across servers.
type QuickCommand struct {
	Name  string
	Tool  string
	Parse func(text string) (map[string]any, bool)
}

// DefaultQuickCommands are "echo <text>" and "sum A B".
func DefaultQuickCommands() []QuickCommand {
	return []QuickCommand{
		{Name: "echo", Tool: "echo", Parse: normalize.EchoCommand},
		{Name: "sum", Tool: "sum", Parse: normalize.SumCommand},
	}
}

// argBuilder adjusts the arguments of a resolved tool. It may also
// re-target the resolution within the same server.
type argBuilder struct {
	domain Domain
	tool   string
	build  func(text string, h normalize.Hints, res *Resolution, catalog toolschema.Catalog)
}

func defaultBuilders() []argBuilder {
	return []argBuilder{
		{domain: DomainAutomotive, tool: "top_cars", build: rerouteTopCars},
		{domain: DomainTrainer, tool: "build_routine_tool", build: backfillRoutine},
		{domain: DomainTrainer, tool: "recommend_exercises", build: backfillExercises},
	}
}
