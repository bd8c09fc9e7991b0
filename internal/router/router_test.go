package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/autohost/internal/toolschema"
)

type fakeCompleter struct {
	out   map[string]any
	calls int
	user  string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, user string, fallback map[string]any) map[string]any {
	f.calls++
	f.user = user
	if f.out == nil {
		return fallback
	}
	return f.out
}

func propose(ref any, args any) *fakeCompleter {
	return &fakeCompleter{out: map[string]any{"tool_ref": ref, "arguments": args, "reasoning_summary": "picked"}}
}

func testCatalog() toolschema.Catalog {
	obj := toolschema.MustFromJSON(`{"type":"object"}`)
	return toolschema.NewCatalog(map[toolschema.Ref]toolschema.Schema{
		{Server: "auto_advisor", Tool: "top_cars"}:      toolschema.MustFromJSON(`{"type":"object","properties":{"n":{"type":"integer"}}}`),
		{Server: "auto_advisor", Tool: "filter_cars"}:   toolschema.MustFromJSON(`{"type":"object","properties":{"limit":{"type":"integer"},"Car Make":{"type":"string"},"Price_max":{"type":"number"}}}`),
		{Server: "auto_advisor", Tool: "recommend"}:     obj,
		{Server: "auto_advisor", Tool: "average_price"}: obj,
		{Server: "chatbot_server", Tool: "build_routine_tool"}:  obj,
		{Server: "chatbot_server", Tool: "recommend_exercises"}: obj,
		{Server: "chatbot_server", Tool: "compute_metrics"}:     obj,
		{Server: "filesystem", Tool: "read_file"}:               obj,
		{Server: "git", Tool: "git_log"}:                        obj,
		{Server: "utility", Tool: "echo"}:                       obj,
		{Server: "utility", Tool: "sum"}:                        obj,
	})
}

func TestSelect_ValidProposal(t *testing.T) {
	llm := propose("chatbot_server.compute_metrics", map[string]any{"age": 28})
	res := New(llm).Select(context.Background(), "what is my bmi, 28 years old", testCatalog())

	require.True(t, res.Resolved())
	assert.Equal(t, "chatbot_server.compute_metrics", res.Ref.String())
	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, DomainTrainer, res.Domain)
	assert.Equal(t, map[string]any{"age": 28}, res.Arguments)
	assert.Equal(t, []State{AwaitingProposal, Validating, Valid, Resolved}, res.Path)
	assert.Contains(t, llm.user, "- auto_advisor.filter_cars")
	assert.Contains(t, llm.user, "User query: what is my bmi, 28 years old")
}

func TestSelect_GateRejectsPrivilegedServerWithoutIntent(t *testing.T) {
	llm := propose("filesystem.read_file", map[string]any{"path": "/etc/passwd"})
	res := New(llm).Select(context.Background(), "show me cars under 20k", testCatalog())

	require.True(t, res.Resolved())
	assert.Equal(t, "auto_advisor.filter_cars", res.Ref.String())
	assert.Equal(t, SourceHeuristic, res.Source)
	assert.Equal(t, "car-filter", res.Rule)
	assert.Contains(t, res.Reasoning, "lacks matching intent")
	assert.Equal(t, []State{AwaitingProposal, Validating, Repairing, Resolved}, res.Path)
}

func TestSelect_GateAcceptsWithIntent(t *testing.T) {
	llm := propose("filesystem.read_file", map[string]any{"path": "notes.txt"})
	res := New(llm).Select(context.Background(), "read the file notes.txt", testCatalog())
	assert.Equal(t, "filesystem.read_file", res.Ref.String())
	assert.Equal(t, DomainFilesystem, res.Domain)

	llm = propose("git.git_log", map[string]any{})
	res = New(llm).Select(context.Background(), "what did I do already", testCatalog())
	assert.False(t, res.Resolved(), "no git intent: %+v", res)

	res = New(llm).Select(context.Background(), "show the last commits", testCatalog())
	assert.Equal(t, "git.git_log", res.Ref.String())
}

func TestSelect_RepairKeepsProposedArguments(t *testing.T) {
	args := map[string]any{"Car Make": "Toyota"}
	llm := propose("filter_cars", args)
	res := New(llm).Select(context.Background(), "show me toyota cars", testCatalog())

	require.True(t, res.Resolved())
	assert.Equal(t, "auto_advisor.filter_cars", res.Ref.String())
	assert.Equal(t, SourceHeuristic, res.Source)
	assert.Equal(t, map[string]any{"Car Make": "Toyota"}, res.Arguments)

	res.Arguments["limit"] = 1
	assert.Equal(t, map[string]any{"Car Make": "Toyota"}, args)
}

func TestSelect_UnknownRefIsUnresolvedWithoutRule(t *testing.T) {
	llm := propose("auto_advisor.nonexistent", map[string]any{})
	res := New(llm).Select(context.Background(), "tell me a joke", testCatalog())

	assert.Equal(t, Unresolved, res.State)
	assert.True(t, res.Ref.IsZero())
	assert.Equal(t, SourceNone, res.Source)
	assert.Contains(t, res.Reasoning, "not in the catalog")
}

func TestSelect_MalformedProposal(t *testing.T) {
	llm := propose(42, "not an object")
	res := New(llm).Select(context.Background(), "hi there", testCatalog())
	assert.Equal(t, Unresolved, res.State)

	res = New(llm).Select(context.Background(), "recommend a car on a budget", testCatalog())
	require.True(t, res.Resolved())
	assert.Equal(t, "auto_advisor.recommend", res.Ref.String())
	assert.Equal(t, map[string]any{}, res.Arguments)
}

func TestSelect_EmptyCatalogSkipsModel(t *testing.T) {
	llm := propose("utility.echo", map[string]any{})
	res := New(llm).Select(context.Background(), "echo hi", toolschema.NewCatalog(nil))
	assert.Equal(t, Unresolved, res.State)
	assert.Equal(t, "No tools available.", res.Reasoning)
	assert.Zero(t, llm.calls)
}

func TestSelect_TopCarsReroutedWhenFiltersPresent(t *testing.T) {
	llm := propose("auto_advisor.top_cars", map[string]any{"n": 5, "Car Make": "Toyota", "color": "red"})
	res := New(llm).Select(context.Background(), "automatic diesel cars under $15k from 2018", testCatalog())

	require.True(t, res.Resolved())
	assert.Equal(t, "auto_advisor.filter_cars", res.Ref.String())
	want := map[string]any{
		"limit":        5,
		"Price_max":    15000,
		"Year_min":     2018,
		"Transmission": "Automatic",
		"Fuel Type":    "Diesel",
		"Car Make":     "Toyota",
	}
	if diff := cmp.Diff(want, res.Arguments); diff != "" {
		t.Errorf("rerouted arguments (-want +got):\n%s", diff)
	}
	assert.Contains(t, res.Reasoning, "rerouted")
}

func TestSelect_TopCarsRerouteLimitDefaults(t *testing.T) {
	llm := propose("auto_advisor.top_cars", map[string]any{})
	res := New(llm).Select(context.Background(), "accident-free cars please", testCatalog())
	assert.Equal(t, "auto_advisor.filter_cars", res.Ref.String())
	assert.Equal(t, 3, res.Arguments["limit"])
	assert.Equal(t, "No", res.Arguments["Accident"])

	res = New(llm).Select(context.Background(), "top 7 manual cars", testCatalog())
	assert.Equal(t, 7, res.Arguments["limit"])
}

func TestSelect_TopCarsRerouteIgnoresZeroLimit(t *testing.T) {
	for name, zero := range map[string]any{
		"float":  0.0,
		"int":    0,
		"number": json.Number("0"),
		"blank":  " ",
	} {
		t.Run(name, func(t *testing.T) {
			llm := propose("auto_advisor.top_cars", map[string]any{"limit": zero})
			res := New(llm).Select(context.Background(), "automatic cars", testCatalog())
			assert.Equal(t, "auto_advisor.filter_cars", res.Ref.String())
			assert.Equal(t, 3, res.Arguments["limit"])
		})
	}

	llm := propose("auto_advisor.top_cars", map[string]any{"n": 4.0})
	res := New(llm).Select(context.Background(), "automatic cars", testCatalog())
	assert.Equal(t, 4.0, res.Arguments["limit"])
}

func TestSelect_TopCarsKeptWithoutFilters(t *testing.T) {
	llm := propose("auto_advisor.top_cars", map[string]any{"n": 5})
	res := New(llm).Select(context.Background(), "show me the best cars", testCatalog())
	assert.Equal(t, "auto_advisor.top_cars", res.Ref.String())
	assert.Equal(t, map[string]any{"n": 5}, res.Arguments)
}

func TestSelect_RoutineGoalBackfill(t *testing.T) {
	llm := propose("chatbot_server.build_routine_tool", map[string]any{})
	res := New(llm).Select(context.Background(), "make me a routine", testCatalog())
	assert.Equal(t, map[string]any{"params": map[string]any{"goal": "endurance"}}, res.Arguments)

	res = New(llm).Select(context.Background(), "routine for fat loss", testCatalog())
	assert.Equal(t, map[string]any{"params": map[string]any{"goal": "fat loss"}}, res.Arguments)

	llm = propose("chatbot_server.build_routine_tool", map[string]any{"params": map[string]any{"objetivo": "strength"}})
	res = New(llm).Select(context.Background(), "routine for fat loss", testCatalog())
	assert.Equal(t, map[string]any{"params": map[string]any{"objetivo": "strength"}}, res.Arguments)
}

func TestSelect_BackfillLeavesProposalUntouched(t *testing.T) {
	args := map[string]any{"days": 3}
	llm := propose("chatbot_server.build_routine_tool", args)
	res := New(llm).Select(context.Background(), "make me a routine", testCatalog())

	assert.Equal(t, map[string]any{"days": 3, "params": map[string]any{"goal": "endurance"}}, res.Arguments)
	assert.Equal(t, map[string]any{"days": 3}, args)

	args = map[string]any{}
	llm = propose("chatbot_server.recommend_exercises", args)
	New(llm).Select(context.Background(), "recommend 5 exercises for strength", testCatalog())
	assert.Empty(t, args)
}

func TestSelect_ExercisesFromRule(t *testing.T) {
	res := New(&fakeCompleter{}).Select(context.Background(), "recommend 5 exercises for strength", testCatalog())
	require.True(t, res.Resolved())
	assert.Equal(t, "chatbot_server.recommend_exercises", res.Ref.String())
	assert.Equal(t, map[string]any{"params": map[string]any{"goal": "strength", "limit": 5}}, res.Arguments)
}

func TestSelect_RuleOrder(t *testing.T) {
	cases := map[string]string{
		"weight loss routine for 3 days":      "chatbot_server.build_routine_tool",
		"compute my bmi, 80 kg":               "chatbot_server.compute_metrics",
		"average price of diesel cars":        "auto_advisor.average_price",
		"what is the safest car":              "auto_advisor.filter_cars",
		"dame ejercicios para principiante":   "chatbot_server.recommend_exercises",
	}
	r := New(&fakeCompleter{})
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			res := r.Select(context.Background(), text, testCatalog())
			assert.Equal(t, want, res.Ref.String())
			assert.Equal(t, SourceHeuristic, res.Source)
		})
	}
}

func TestSelect_QuickCommandOverrides(t *testing.T) {
	llm := propose("auto_advisor.filter_cars", map[string]any{"limit": 3})
	res := New(llm).Select(context.Background(), "echo hello cars", testCatalog())

	require.True(t, res.Resolved())
	assert.Equal(t, "utility.echo", res.Ref.String())
	assert.Equal(t, SourceCommand, res.Source)
	assert.Equal(t, DomainUtility, res.Domain)
	assert.Equal(t, map[string]any{"params": map[string]any{"text": "hello cars"}}, res.Arguments)

	res = New(&fakeCompleter{}).Select(context.Background(), "add 2 and 3", testCatalog())
	assert.Equal(t, "utility.sum", res.Ref.String())
	assert.Equal(t, map[string]any{"params": map[string]any{"a": 2, "b": 3}}, res.Arguments)
}

func TestSelect_CustomRulesAndDomains(t *testing.T) {
	cat := toolschema.NewCatalog(map[toolschema.Ref]toolschema.Schema{
		{Server: "weather", Tool: "forecast"}: toolschema.MustFromJSON(`{"type":"object"}`),
	})
	r := New(&fakeCompleter{},
		WithRules([]Rule{{Name: "weather", AllOf: nil, Targets: []string{"weather.forecast"}}}),
		WithDomains(map[string]Domain{"weather": DomainAutomotive}),
	)
	res := r.Select(context.Background(), "rain tomorrow?", cat)
	assert.False(t, res.Resolved(), "a rule without keyword groups never fires")

	res = New(propose("weather.forecast", nil), WithDomains(map[string]Domain{"weather": DomainAutomotive})).
		Select(context.Background(), "rain tomorrow?", cat)
	assert.Equal(t, DomainAutomotive, res.Domain)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "repairing", Repairing.String())
	assert.Equal(t, "state(42)", State(42).String())
	assert.Equal(t, "strategy-game", DomainStrategyGame.String())
}

func TestParseDomain(t *testing.T) {
	for d := DomainNone; d <= DomainVersionControl; d++ {
		got, ok := ParseDomain(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ParseDomain("weather")
	assert.False(t, ok)
}
