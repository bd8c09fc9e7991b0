package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	echoCommand = regexp.MustCompile(`(?is)^\s*echo\b[:\s]*(.*?)\s*$`)
	sumCommand  = regexp.MustCompile(`(?i)^\s*(?:sum|add)\s+(-?\d+(?:\.\d+)?)\s*(?:\+|,|and|y|plus)?\s*(-?\d+(?:\.\d+)?)\s*[.!?]?\s*$`)
)

// EchoCommand matches "echo <text>". An empty payload echoes "hello?".
func EchoCommand(text string) (map[string]any, bool) {
	m := echoCommand.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	payload := strings.TrimSpace(m[1])
	if payload == "" {
		payload = "hello?"
	}
	return map[string]any{"params": map[string]any{"text": payload}}, true
}

// SumCommand matches "sum 2 3", "add 2 and 3" or "sum 2 + 3".
func SumCommand(text string) (map[string]any, bool) {
	m := sumCommand.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	a, okA := number(m[1])
	b, okB := number(m[2])
	if !okA || !okB {
		return nil, false
	}
	return map[string]any{"params": map[string]any{"a": a, "b": b}}, true
}

// number keeps integers as int so they round-trip as JSON integers.
func number(s string) (any, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}
