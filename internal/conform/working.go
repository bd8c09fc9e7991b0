package conform

import (
	"math"
	"strconv"
	"strings"

	"github.com/crystaldolphin/autohost/internal/toolschema"
)

// working is the in-progress result of one Conform call.
type working struct {
	schema toolschema.Schema
	sub    toolschema.Schema
	hasSub bool
	opaque bool

	root   map[string]any
	params map[string]any
}

func newWorking(schema toolschema.Schema) *working {
	sub, ok := schema.Params()
	return &working{
		schema: schema,
		sub:    sub,
		hasSub: ok,
		opaque: schema.ParamsOpaque(),
		root:   map[string]any{},
		params: map[string]any{},
	}
}

func (w *working) setRoot(name string, v any) {
	if _, ok := w.root[name]; !ok {
		w.root[name] = v
	}
}

func (w *working) setParam(name string, v any) {
	if _, ok := w.params[name]; !ok {
		w.params[name] = v
	}
}

// place puts a value where the schema declares it: params wins when the
// nested schema declares the name.
func (w *working) place(name string, v any) {
	if w.hasSub && w.sub.Declares(name) {
		w.setParam(name, v)
		return
	}
	w.setRoot(name, v)
}

// packParams moves root keys that params declares into params.
func (w *working) packParams() {
	if !w.hasSub {
		return
	}
	for _, k := range sortedKeys(w.root) {
		if w.sub.Declares(k) {
			w.setParam(k, w.root[k])
			delete(w.root, k)
		}
	}
}

func (w *working) lookup(name string) (any, bool) {
	if v, ok := w.params[name]; ok {
		return v, true
	}
	v, ok := w.root[name]
	return v, ok
}

func (w *working) hasAny(names []string) bool {
	for _, n := range names {
		if _, ok := w.lookup(n); ok {
			return true
		}
	}
	return false
}

func (w *working) paramsHasAny(names []string) bool {
	for _, n := range names {
		if _, ok := w.params[n]; ok {
			return true
		}
	}
	return false
}

// update rewrites a value in whichever map holds it.
func (w *working) update(name string, v any) {
	if _, ok := w.params[name]; ok {
		w.params[name] = v
		return
	}
	if _, ok := w.root[name]; ok {
		w.root[name] = v
	}
}

// finalize drops everything the schema does not declare and coerces
// values to their declared types.
func (w *working) finalize() map[string]any {
	out := make(map[string]any, len(w.root)+1)
	for k, v := range w.root {
		if k == paramsKey || !w.schema.Declares(k) {
			continue
		}
		out[k] = coerce(v, w.schema.Type(k))
	}
	if !w.hasSub {
		return out
	}
	nested := make(map[string]any, len(w.params))
	for k, v := range w.params {
		if w.opaque {
			nested[k] = v
			continue
		}
		if w.sub.Declares(k) {
			nested[k] = coerce(v, w.sub.Type(k))
		}
	}
	if len(nested) > 0 || w.schema.ParamsRequired() {
		out[paramsKey] = nested
	}
	return out
}

// coerce converts unambiguous mismatches, such as "3" for an integer or a
// bare string for an array. Anything else is returned unchanged.
func coerce(v any, typ string) any {
	switch typ {
	case "integer":
		switch x := v.(type) {
		case float64:
			if x == math.Trunc(x) && !math.IsInf(x, 0) {
				return int(x)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil && f == math.Trunc(f) {
				return int(f)
			}
		}
	case "number":
		if s, ok := v.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64); err == nil {
				return f
			}
		}
	case "string":
		switch x := v.(type) {
		case int:
			return strconv.Itoa(x)
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	case "boolean":
		if s, ok := v.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true", "yes", "si", "1":
				return true
			case "false", "no", "0":
				return false
			}
		}
	case "array":
		switch x := v.(type) {
		case []any:
			return x
		case []string:
			out := make([]any, len(x))
			for i, s := range x {
				out[i] = s
			}
			return out
		case nil:
			return x
		case map[string]any:
			return x
		default:
			return []any{x}
		}
	}
	return v
}
