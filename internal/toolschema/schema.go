// Package toolschema is the read-only view of MCP tool input schemas used
// by the router and the argument conformer.
package toolschema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamsKey is the conventional nested object some tools expect their
// arguments under.
const ParamsKey = "params"

// Schema wraps a tool's declared input schema. The zero value is an empty
// object schema that declares nothing.
type Schema struct {
	root *jsonschema.Schema
}

// Parse decodes a raw JSON Schema document.
func Parse(raw []byte) (Schema, error) {
	if len(raw) == 0 {
		return Schema{}, nil
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return Schema{}, fmt.Errorf("parse input schema: %w", err)
	}
	return Schema{root: &s}, nil
}

// FromMap converts a decoded inputSchema object.
func FromMap(m map[string]any) (Schema, error) {
	if m == nil {
		return Schema{}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return Schema{}, fmt.Errorf("encode input schema: %w", err)
	}
	return Parse(raw)
}

// MustFromJSON is for fixtures and static tables.
func MustFromJSON(raw string) Schema {
	s, err := Parse([]byte(raw))
	if err != nil {
		panic(err)
	}
	return s
}

// Properties returns the declared root property names, sorted.
func (s Schema) Properties() []string {
	if s.root == nil {
		return nil
	}
	return sortedKeys(s.root.Properties)
}

// Declares reports whether name is a declared root property.
func (s Schema) Declares(name string) bool {
	if s.root == nil {
		return false
	}
	_, ok := s.root.Properties[name]
	return ok
}

// Required returns the required root property names, sorted.
func (s Schema) Required() []string {
	if s.root == nil {
		return nil
	}
	out := append([]string(nil), s.root.Required...)
	sort.Strings(out)
	return out
}

// IsRequired reports whether name is in the root required set.
func (s Schema) IsRequired(name string) bool {
	if s.root == nil {
		return false
	}
	for _, r := range s.root.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Type returns the declared JSON type of a root property, or "" when
// absent or ambiguous.
func (s Schema) Type(name string) string {
	if s.root == nil {
		return ""
	}
	return typeOf(s.root.Properties[name])
}

// Property returns the sub-schema of a root property.
func (s Schema) Property(name string) (Schema, bool) {
	if s.root == nil {
		return Schema{}, false
	}
	p, ok := s.root.Properties[name]
	if !ok || p == nil {
		return Schema{}, ok
	}
	return Schema{root: p}, true
}

// HasParams reports whether the tool declares a params property.
func (s Schema) HasParams() bool { return s.Declares(ParamsKey) }

// ParamsRequired reports whether params is a required property.
func (s Schema) ParamsRequired() bool { return s.IsRequired(ParamsKey) }

// Params returns the nested params sub-schema. ok is false when the tool
// declares no params property.
func (s Schema) Params() (Schema, bool) {
	if !s.HasParams() {
		return Schema{}, false
	}
	return s.Property(ParamsKey)
}

// ParamsOpaque reports whether params is declared without any properties
// of its own, so its contents cannot be checked key by key.
func (s Schema) ParamsOpaque() bool {
	p, ok := s.Params()
	return ok && len(p.Properties()) == 0
}

// Validate checks args against the schema. It is advisory: tools remain
// the authority on their own input.
func (s Schema) Validate(args map[string]any) error {
	if s.root == nil {
		return nil
	}
	resolved, err := s.root.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve input schema: %w", err)
	}
	// Round-trip so numbers carry JSON types rather than Go ones.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	var instance map[string]any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return resolved.Validate(instance)
}

// MarshalJSON renders the wrapped schema, used in diagnostics.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.root == nil {
		return []byte(`{"type":"object"}`), nil
	}
	return json.Marshal(s.root)
}

func typeOf(p *jsonschema.Schema) string {
	if p == nil {
		return ""
	}
	if p.Type != "" {
		return p.Type
	}
	var nonNull []string
	for _, t := range p.Types {
		if t != "null" {
			nonNull = append(nonNull, t)
		}
	}
	if len(nonNull) == 1 {
		return nonNull[0]
	}
	// anyOf [X, null] as emitted for optional fields.
	var fromAny []string
	for _, alt := range p.AnyOf {
		if t := typeOf(alt); t != "" && t != "null" {
			fromAny = append(fromAny, t)
		}
	}
	if len(fromAny) == 1 {
		return fromAny[0]
	}
	return ""
}

func sortedKeys(m map[string]*jsonschema.Schema) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
