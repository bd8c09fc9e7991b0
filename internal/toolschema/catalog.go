package toolschema

import (
	"sort"
	"strings"
)

// Ref identifies one tool on one server.
type Ref struct {
	Server string
	Tool   string
}

// String renders the ref as "server.tool", the form the router prompt uses.
func (r Ref) String() string { return r.Server + "." + r.Tool }

// IsZero reports whether r names nothing.
func (r Ref) IsZero() bool { return r == Ref{} }

// Catalog is an immutable snapshot of every available tool and its input
// schema.
type Catalog struct {
	entries map[Ref]Schema
}

// NewCatalog copies entries into a new catalog.
func NewCatalog(entries map[Ref]Schema) Catalog {
	c := Catalog{entries: make(map[Ref]Schema, len(entries))}
	for ref, s := range entries {
		c.entries[ref] = s
	}
	return c
}

// Len returns the number of tools.
func (c Catalog) Len() int { return len(c.entries) }

// Get returns the schema for ref.
func (c Catalog) Get(ref Ref) (Schema, bool) {
	s, ok := c.entries[ref]
	return s, ok
}

// Has reports whether ref is in the catalog.
func (c Catalog) Has(ref Ref) bool {
	_, ok := c.entries[ref]
	return ok
}

// Lookup resolves a "server.tool" string. Tool names may contain dots, so
// every split point is tried and the shortest server name wins.
func (c Catalog) Lookup(name string) (Ref, bool) {
	name = strings.TrimSpace(name)
	for i := 0; i < len(name); i++ {
		if name[i] != '.' {
			continue
		}
		ref := Ref{Server: name[:i], Tool: name[i+1:]}
		if _, ok := c.entries[ref]; ok {
			return ref, true
		}
	}
	return Ref{}, false
}

// Refs returns every ref sorted by server, then tool.
func (c Catalog) Refs() []Ref {
	out := make([]Ref, 0, len(c.entries))
	for ref := range c.entries {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Server != out[j].Server {
			return out[i].Server < out[j].Server
		}
		return out[i].Tool < out[j].Tool
	})
	return out
}

// Names returns the sorted "server.tool" strings.
func (c Catalog) Names() []string {
	refs := c.Refs()
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

// FindTool returns the first ref, in sorted order, whose tool name is tool.
func (c Catalog) FindTool(tool string) (Ref, bool) {
	for _, r := range c.Refs() {
		if r.Tool == tool {
			return r, true
		}
	}
	return Ref{}, false
}
