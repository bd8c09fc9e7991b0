// Package conform rewrites loosely shaped tool arguments into the exact
// shape a tool's input schema declares.
package conform

import (
	"sort"

	"github.com/crystaldolphin/autohost/internal/normalize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

const paramsKey = toolschema.ParamsKey

// Conformer maps arguments onto a schema. It is stateless after
// construction and safe for concurrent use.
type Conformer struct {
	concepts []Concept
	index    map[string]int
}

// New returns a Conformer using DefaultConcepts.
func New() *Conformer {
	return NewWithConcepts(DefaultConcepts())
}

// NewWithConcepts builds a Conformer from a custom concept table.
func NewWithConcepts(concepts []Concept) *Conformer {
	c := &Conformer{concepts: concepts, index: make(map[string]int)}
	for i, con := range concepts {
		keys := append([]string{con.Name}, con.Spellings...)
		keys = append(keys, con.Aliases...)
		for _, k := range keys {
			nk := normKey(k)
			if _, dup := c.index[nk]; !dup {
				c.index[nk] = i
			}
		}
	}
	return c
}

// Conform returns a new argument map whose root keys are all declared by
// schema and whose params object (when declared with properties) holds
// only declared sub-keys. args is never modified. Conform(t, Conform(t, a,
// s), s) equals Conform(t, a, s).
func (c *Conformer) Conform(text string, args map[string]any, schema toolschema.Schema) map[string]any {
	w := newWorking(schema)

	c.mapAliases(w, args)
	w.packParams()
	c.backfillHints(w, normalize.Extract(text))
	repairDomainValues(w, text)
	c.packLooseMetrics(w, args, text)

	return w.finalize()
}

// mapAliases resolves every incoming key to a declared name. Root keys are
// visited before the keys of an incoming params object, each in sorted
// order; the first value for a name wins.
func (c *Conformer) mapAliases(w *working, args map[string]any) {
	for _, k := range sortedKeys(args) {
		if k == paramsKey {
			continue
		}
		if name := c.resolve(k, w.schema); name != "" {
			w.setRoot(name, args[k])
		}
	}
	nested, ok := asMap(args[paramsKey])
	if !ok {
		return
	}
	for _, k := range sortedKeys(nested) {
		if name := c.resolve(k, w.schema); name != "" {
			w.setRoot(name, nested[k])
			continue
		}
		if w.opaque {
			w.setParam(k, nested[k])
		}
	}
}

// resolve returns the declared name for key, or "" when the schema has no
// matching property.
func (c *Conformer) resolve(key string, schema toolschema.Schema) string {
	if key != paramsKey && declared(schema, key) {
		return key
	}
	nk := normKey(key)
	if i, ok := c.index[nk]; ok {
		if name := firstDeclared(schema, c.concepts[i].Spellings); name != "" {
			return name
		}
	}
	for _, name := range declaredNames(schema) {
		if normKey(name) == nk {
			return name
		}
	}
	return ""
}

// backfillHints fills concepts the utterance specifies but the arguments
// lack, using the first spelling the schema declares.
func (c *Conformer) backfillHints(w *working, hints normalize.Hints) {
	for _, con := range c.concepts {
		if con.Hint == nil {
			continue
		}
		name := firstDeclared(w.schema, con.Spellings)
		if name == "" || w.hasAny(con.Spellings) {
			continue
		}
		if v, ok := con.Hint(hints); ok {
			w.place(name, v)
		}
	}
}

// packLooseMetrics handles tools that require an opaque params object:
// body metrics given at the root, or found in the utterance, are packed
// into params under their canonical names.
func (c *Conformer) packLooseMetrics(w *working, args map[string]any, text string) {
	if !w.opaque || !w.schema.ParamsRequired() {
		return
	}
	var hints *normalize.Hints
	for _, name := range personConcepts {
		con := c.concept(name)
		if con == nil || w.paramsHasAny(con.Spellings) {
			continue
		}
		canonical := con.Spellings[0]
		if v, ok := c.looseValue(args, con); ok {
			w.setParam(canonical, v)
			continue
		}
		if hints == nil {
			h := normalize.Extract(text)
			hints = &h
		}
		if v, ok := con.Hint(*hints); ok {
			w.setParam(canonical, v)
		}
	}
}

func (c *Conformer) looseValue(args map[string]any, con *Concept) (any, bool) {
	for _, k := range sortedKeys(args) {
		if k == paramsKey {
			continue
		}
		if i, ok := c.index[normKey(k)]; ok && c.concepts[i].Name == con.Name {
			return args[k], true
		}
	}
	return nil, false
}

func (c *Conformer) concept(name string) *Concept {
	for i := range c.concepts {
		if c.concepts[i].Name == name {
			return &c.concepts[i]
		}
	}
	return nil
}

func declared(schema toolschema.Schema, name string) bool {
	if name == paramsKey {
		return false
	}
	if schema.Declares(name) {
		return true
	}
	if p, ok := schema.Params(); ok {
		return p.Declares(name)
	}
	return false
}

func firstDeclared(schema toolschema.Schema, spellings []string) string {
	for _, s := range spellings {
		if declared(schema, s) {
			return s
		}
	}
	return ""
}

// declaredNames lists root names then params names, each sorted.
func declaredNames(schema toolschema.Schema) []string {
	var out []string
	for _, n := range schema.Properties() {
		if n != paramsKey {
			out = append(out, n)
		}
	}
	if p, ok := schema.Params(); ok {
		out = append(out, p.Properties()...)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
