package summarize

import (
	"math"
	"regexp"
	"strconv"
)

// DefaultRows is the preview height when the caller passes zero.
const DefaultRows = 3

const kmPerMile = 1.60934

// Table is a bounded, already stringified preview.
type Table struct {
	Columns []string
	Rows    [][]string
	Total   int
}

// preferredColumns lead the column order when present; the rest follow
// alphabetically.
var preferredColumns = []string{
	"name", "Name",
	"Car Make", "make", "Car Model", "model", "Year", "year",
	"Price", "price", "Mileage", "mileage",
	"Fuel Type", "Transmission", "Condition", "Accident",
	"types", "speed", "abilities",
	"goal", "sets", "reps", "duration",
}

var mentionsMiles = regexp.MustCompile(`(?i)\b(?:mi|miles?|millas?)\b`)

// Preview builds a table from the first maxRows items of the result list.
// It reports false when result carries no list.
func Preview(result any, text string, maxRows int) (Table, bool) {
	if maxRows <= 0 {
		maxRows = DefaultRows
	}
	var items []any
	switch r := result.(type) {
	case []any:
		items = r
	case map[string]any:
		if _, list, ok := findList(r); ok {
			items = list
		} else if t, ok := r["team"].(map[string]any); ok {
			items, _ = t["pokemon"].([]any)
		}
	}
	if len(items) == 0 {
		return Table{}, false
	}

	shown := items
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	cols := columns(shown)
	milesCol := ""
	if mentionsMiles.MatchString(text) {
		cols, milesCol = withMiles(cols)
	}

	t := Table{Columns: cols, Total: len(items)}
	for _, item := range shown {
		obj, ok := item.(map[string]any)
		row := make([]string, len(cols))
		if !ok {
			// Mixed lists keep the value in the first column.
			row[0] = scalar(item)
			t.Rows = append(t.Rows, row)
			continue
		}
		for i, c := range cols {
			if c == milesColumn && milesCol != "" {
				if km, ok := number(obj[milesCol]); ok {
					row[i] = strconv.FormatInt(int64(math.Round(km/kmPerMile)), 10)
				}
				continue
			}
			row[i] = scalar(obj[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

const milesColumn = "Mileage (mi)"

// columns orders the union of object keys across items.
func columns(items []any) []string {
	seen := map[string]any{}
	objects := false
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = true
			for k := range obj {
				seen[k] = nil
			}
		}
	}
	if !objects {
		return []string{"value"}
	}
	var cols []string
	for _, c := range preferredColumns {
		if _, ok := seen[c]; ok {
			cols = append(cols, c)
			delete(seen, c)
		}
	}
	return append(cols, sortedKeys(seen)...)
}

// withMiles inserts the miles column right after the kilometre column.
func withMiles(cols []string) ([]string, string) {
	for i, c := range cols {
		if c == "Mileage" || c == "mileage" {
			out := make([]string, 0, len(cols)+1)
			out = append(out, cols[:i+1]...)
			out = append(out, milesColumn)
			return append(out, cols[i+1:]...), c
		}
	}
	return cols, ""
}
