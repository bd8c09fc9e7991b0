package toolschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routineSchema = `{
  "type": "object",
  "properties": {
    "params": {
      "type": "object",
      "properties": {
        "goal": {"type": "string"},
        "limit": {"anyOf": [{"type": "integer"}, {"type": "null"}]}
      }
    },
    "debug": {"type": "boolean"}
  },
  "required": ["params"]
}`

func TestSchema_Params(t *testing.T) {
	s := MustFromJSON(routineSchema)

	assert.Equal(t, []string{"debug", "params"}, s.Properties())
	assert.True(t, s.HasParams())
	assert.True(t, s.ParamsRequired())
	assert.False(t, s.ParamsOpaque())

	p, ok := s.Params()
	require.True(t, ok)
	assert.Equal(t, []string{"goal", "limit"}, p.Properties())
	assert.Equal(t, "integer", p.Type("limit"))
	assert.Equal(t, "boolean", s.Type("debug"))
}

func TestSchema_OpaqueParams(t *testing.T) {
	s := MustFromJSON(`{"type":"object","properties":{"params":{"type":"object"}},"required":["params"]}`)
	assert.True(t, s.ParamsOpaque())
}

func TestSchema_ZeroValue(t *testing.T) {
	var s Schema
	assert.Empty(t, s.Properties())
	assert.False(t, s.HasParams())
	assert.False(t, s.Declares("anything"))
	assert.NoError(t, s.Validate(map[string]any{"x": 1}))
}

func TestSchema_Validate(t *testing.T) {
	s := MustFromJSON(`{"type":"object","properties":{"limit":{"type":"integer"}},"required":["limit"]}`)
	assert.NoError(t, s.Validate(map[string]any{"limit": 3}))
	assert.Error(t, s.Validate(map[string]any{}))
	assert.Error(t, s.Validate(map[string]any{"limit": "three"}))
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]any{
		"type":       "object",
		"properties": map[string]any{"Price_max": map[string]any{"type": "number"}},
	})
	require.NoError(t, err)
	assert.True(t, s.Declares("Price_max"))
	assert.Equal(t, "number", s.Type("Price_max"))
}

func TestCatalog_LookupDottedToolNames(t *testing.T) {
	c := NewCatalog(map[Ref]Schema{
		{Server: "pokevgc", Tool: "pool.filter"}:     {},
		{Server: "auto_advisor", Tool: "filter_cars"}: {},
	})

	ref, ok := c.Lookup("pokevgc.pool.filter")
	require.True(t, ok)
	assert.Equal(t, Ref{Server: "pokevgc", Tool: "pool.filter"}, ref)

	_, ok = c.Lookup("pokevgc.pool")
	assert.False(t, ok)

	assert.Equal(t, []string{"auto_advisor.filter_cars", "pokevgc.pool.filter"}, c.Names())

	ref, ok = c.FindTool("filter_cars")
	require.True(t, ok)
	assert.Equal(t, "auto_advisor", ref.Server)
}

func TestCatalog_DottedNamesDoNotCollide(t *testing.T) {
	left := Ref{Server: "a.b", Tool: "c"}
	right := Ref{Server: "a", Tool: "b.c"}
	c := NewCatalog(map[Ref]Schema{
		left:  MustFromJSON(`{"type":"object","properties":{"x":{"type":"string"}}}`),
		right: MustFromJSON(`{"type":"object","properties":{"y":{"type":"string"}}}`),
	})

	assert.Equal(t, 2, c.Len())
	l, _ := c.Get(left)
	r, _ := c.Get(right)
	assert.Equal(t, []string{"x"}, l.Properties())
	assert.Equal(t, []string{"y"}, r.Properties())

	ref, ok := c.Lookup(" a.b.c ")
	require.True(t, ok)
	assert.Equal(t, right, ref)

	only := NewCatalog(map[Ref]Schema{left: {}})
	ref, ok = only.Lookup("a.b.c")
	require.True(t, ok)
	assert.Equal(t, left, ref)
}
