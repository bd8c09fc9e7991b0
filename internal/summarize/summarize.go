// Package summarize turns raw tool output into a short sentence and a
// bounded preview table.
package summarize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// listFields are the object fields that carry a result list, in lookup order.
var listFields = []string{"results", "recommendations", "items", "cars", "exercises", "candidates", "pokemon"}

var printer = message.NewPrinter(language.English)

// Decode parses raw as JSON, falling back to the trimmed text itself.
func Decode(raw string) any {
	trimmed := strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return trimmed
}

type recognizer func(result any, text string) (string, bool)

var recognizers = []recognizer{
	averagePrice,
	bodyMetrics,
	team,
	listField,
	topLevelList,
	plainString,
}

// Summarize returns a one or two sentence description of result. The first
// recognizer that understands the shape wins.
func Summarize(result any, text string) string {
	for _, r := range recognizers {
		if s, ok := r(result, text); ok {
			return s
		}
	}
	return "Here is the result from the tool."
}

func averagePrice(result any, _ string) (string, bool) {
	obj, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	avg, ok := number(obj["average_price"])
	if !ok {
		return "", false
	}
	var subject []string
	for _, k := range []string{"make", "Car Make", "model", "Car Model"} {
		if s, ok := obj[k].(string); ok && s != "" {
			subject = append(subject, s)
		}
	}
	var b strings.Builder
	b.WriteString("The average price")
	if len(subject) > 0 {
		b.WriteString(" for " + strings.Join(subject, " "))
	}
	b.WriteString(" is " + money(avg))
	for _, k := range []string{"count", "n", "sample_size"} {
		if n, ok := number(obj[k]); ok {
			b.WriteString(printer.Sprintf(" across %d cars", int(n)))
			break
		}
	}
	b.WriteString(".")
	return b.String(), true
}

func bodyMetrics(result any, _ string) (string, bool) {
	obj, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	bmi, hasBMI := number(obj["bmi"])
	bmr, hasBMR := number(obj["bmr"])
	if !hasBMI && !hasBMR {
		return "", false
	}
	var parts []string
	if hasBMI {
		s := fmt.Sprintf("your BMI is %.1f", bmi)
		for _, k := range []string{"category", "bmi_category", "categoria"} {
			if c, ok := obj[k].(string); ok && c != "" {
				s += " (" + c + ")"
				break
			}
		}
		parts = append(parts, s)
	}
	if hasBMR {
		parts = append(parts, printer.Sprintf("your BMR is %d kcal/day", int(math.Round(bmr))))
	}
	s := strings.Join(parts, " and ")
	return strings.ToUpper(s[:1]) + s[1:] + ".", true
}

func team(result any, _ string) (string, bool) {
	obj, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	t, ok := obj["team"].(map[string]any)
	if !ok {
		return "", false
	}
	members, ok := t["pokemon"].([]any)
	if !ok {
		return "", false
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, label(m))
	}
	if len(names) == 0 {
		return "The suggested team is empty.", true
	}
	return fmt.Sprintf("Suggested team of %d: %s.", len(names), strings.Join(names, ", ")), true
}

func listField(result any, _ string) (string, bool) {
	obj, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	field, items, ok := findList(obj)
	if !ok {
		return "", false
	}
	return describeList(items, field), true
}

func topLevelList(result any, _ string) (string, bool) {
	items, ok := result.([]any)
	if !ok {
		return "", false
	}
	return describeList(items, "results"), true
}

func plainString(result any, _ string) (string, bool) {
	s, ok := result.(string)
	return s, ok
}

func describeList(items []any, noun string) string {
	switch len(items) {
	case 0:
		return fmt.Sprintf("No %s found.", noun)
	case 1:
		return fmt.Sprintf("Found 1 match: %s.", label(items[0]))
	}
	return fmt.Sprintf("Found %d %s. Top pick: %s.", len(items), noun, label(items[0]))
}

func findList(obj map[string]any) (string, []any, bool) {
	for _, f := range listFields {
		if items, ok := obj[f].([]any); ok {
			return f, items, true
		}
	}
	return "", nil, false
}

// label names one result item by its most descriptive fields.
func label(item any) string {
	obj, ok := item.(map[string]any)
	if !ok {
		return scalar(item)
	}
	for _, k := range []string{"name", "Name", "title", "exercise"} {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	var parts []string
	for _, k := range []string{"Car Make", "make", "Car Model", "model", "Year", "year"} {
		if v, ok := obj[k]; ok {
			parts = append(parts, scalar(v))
		}
	}
	if p, ok := number(first(obj, "Price", "price")); ok {
		parts = append(parts, "at "+money(p))
	}
	if len(parts) == 0 {
		return "1 item"
	}
	return strings.Join(parts, " ")
}

// Pretty renders result for the raw payload panel.
func Pretty(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func money(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("$%d", int64(v))
	}
	return printer.Sprintf("$%.2f", v)
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	}
	return fmt.Sprint(v)
}

func first(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
