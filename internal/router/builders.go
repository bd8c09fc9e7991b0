package router

import (
	"encoding/json"
	"strings"

	"github.com/crystaldolphin/autohost/internal/normalize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

const (
	defaultCarLimit = 3
	defaultGoal     = "endurance"
)

// carCarryOver lists filter arguments kept from the original proposal when
// the filtered tool also declares them.
var carCarryOver = []string{"Car Make", "Car Model", "Transmission", "Fuel Type", "Condition",
	"Accident", "Year_min", "Year_max", "Mileage_max", "Price_max"}

// rerouteTopCars swaps a broad listing for the filtered one of the same
// server when the utterance carries filters.
func rerouteTopCars(_ string, h normalize.Hints, res *Resolution, catalog toolschema.Catalog) {
	if !h.WantsCarFilters() {
		return
	}
	target := toolschema.Ref{Server: res.Ref.Server, Tool: "filter_cars"}
	schema, ok := catalog.Get(target)
	if !ok {
		return
	}

	old := res.Arguments
	args := map[string]any{"limit": carLimit(old, h)}
	if h.HasBudget {
		args["Price_max"] = h.Budget
	}
	if h.Years.HasMin() {
		args["Year_min"] = h.Years.Min
	}
	if h.Years.HasMax() {
		args["Year_max"] = h.Years.Max
	}
	if h.HasMileage {
		args["Mileage_max"] = h.Mileage
	}
	if h.Auto.Transmission != "" {
		args["Transmission"] = h.Auto.Transmission
	}
	if h.Auto.FuelType != "" {
		args["Fuel Type"] = h.Auto.FuelType
	}
	if h.Auto.Accident != "" {
		args["Accident"] = h.Auto.Accident
	}
	for _, k := range carCarryOver {
		if v, ok := old[k]; ok && schema.Declares(k) {
			if _, set := args[k]; !set {
				args[k] = v
			}
		}
	}

	res.Ref = target
	res.Arguments = args
	res.Reasoning = annotate(res.Reasoning, "rerouted to "+target.String()+" for filters")
}

func carLimit(args map[string]any, h normalize.Hints) any {
	for _, k := range []string{"limit", "n"} {
		if v, ok := args[k]; ok && present(v) {
			return v
		}
	}
	if h.HasCount {
		return h.Count
	}
	return defaultCarLimit
}

// backfillRoutine makes sure a routine request carries a goal.
func backfillRoutine(_ string, h normalize.Hints, res *Resolution, _ toolschema.Catalog) {
	params := paramsOf(res.Arguments)
	if !hasAny(params, "goal", "objetivo") && !hasAny(res.Arguments, "goal", "objetivo") {
		params["goal"] = goalOrDefault(h)
	}
	args := cloneArgs(res.Arguments)
	args["params"] = params
	res.Arguments = args
}

// backfillExercises adds a goal and, when stated, a limit.
func backfillExercises(_ string, h normalize.Hints, res *Resolution, _ toolschema.Catalog) {
	params := paramsOf(res.Arguments)
	if !hasAny(params, "goal", "objetivo") && !hasAny(res.Arguments, "goal", "objetivo") {
		params["goal"] = goalOrDefault(h)
	}
	if h.Trainer.Limit > 0 && !hasAny(params, "limit", "limite") && !hasAny(res.Arguments, "limit", "limite") {
		params["limit"] = h.Trainer.Limit
	}
	args := cloneArgs(res.Arguments)
	args["params"] = params
	res.Arguments = args
}

func goalOrDefault(h normalize.Hints) string {
	if h.Trainer.Goal != "" {
		return h.Trainer.Goal
	}
	return defaultGoal
}

// paramsOf returns a copy of the nested params object.
func paramsOf(args map[string]any) map[string]any {
	out := map[string]any{}
	if p, ok := args["params"].(map[string]any); ok {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return true
		}
	}
	return false
}

// cloneArgs copies the top level of an argument map.
func cloneArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

// present reports whether v is a usable value: not nil, not blank and not
// numerically zero whatever its decoded type.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	}
	return true
}
