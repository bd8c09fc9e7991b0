package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/crystaldolphin/autohost/internal/eventlog"
	"github.com/crystaldolphin/autohost/internal/host"
	"github.com/crystaldolphin/autohost/internal/shared/llmutils"
	"github.com/crystaldolphin/autohost/internal/summarize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

const (
	maxRawChars   = 4000
	logTimeLayout = "2006-01-02 15:04:05"
)

var (
	colorAssistant = lipgloss.Color("#2196F3")
	colorTool      = lipgloss.Color("#8BC34A")
	colorError     = lipgloss.Color("#e53935")
	colorMuted     = lipgloss.Color("#6c7a89")
	colorWarn      = lipgloss.Color("#FFC107")

	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderer writes host replies to a terminal.
type renderer struct {
	w       io.Writer
	showRaw bool
}

func panel(title, body string, color lipgloss.Color) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(body)
	return titleStyle.Foreground(color).Render(title) + "\n" + box
}

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func (r renderer) print(s string) {
	fmt.Fprintln(r.w, s)
}

func (r renderer) reply(rep host.Reply) {
	switch rep.Kind {
	case host.KindNone, host.KindExit:
	case host.KindHelp:
		r.help()
	case host.KindCommand:
		r.print(lipgloss.NewStyle().Foreground(colorWarn).Render(rep.Text))
	case host.KindLogs:
		r.logs(rep.Logs)
	case host.KindTools:
		r.catalog(rep.Catalog)
	case host.KindChat:
		r.print(panel("Assistant", rep.Text, colorAssistant))
	case host.KindTool:
		r.toolCall(rep)
		body := rep.Summary
		if rep.Preview != nil {
			body += "\n\n" + previewGrid(*rep.Preview)
		}
		r.print(panel("Result", body, colorTool))
		if r.showRaw && rep.Raw != "" {
			r.print(mutedStyle.Render(llmutils.Truncate(rep.Raw, maxRawChars)))
		}
	case host.KindError:
		if !rep.Ref.IsZero() {
			r.toolCall(rep)
		}
		r.print(panel("Result", diagnosticBody(rep.Diagnostic), colorError))
	}
}

func (r renderer) toolCall(rep host.Reply) {
	args, _ := json.Marshal(rep.Arguments)
	body := rep.Ref.String() + " " + string(args)
	if rep.Reasoning != "" {
		body += "\n" + mutedStyle.Render(rep.Reasoning)
	}
	r.print(panel("Tool call", body, colorMuted))
}

func diagnosticBody(d *host.Diagnostic) string {
	if d == nil {
		return "unknown failure"
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return d.Message
	}
	return d.Message + "\n\n" + mutedStyle.Render(string(raw))
}

func previewGrid(t summarize.Table) string {
	out := grid(t.Columns, t.Rows)
	if t.Total > len(t.Rows) {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("showing %d of %d", len(t.Rows), t.Total))
	}
	return out
}

func (r renderer) help() {
	rows := make([][]string, 0, len(host.Commands))
	for _, c := range host.Commands {
		rows = append(rows, []string{c.Name, c.Usage})
	}
	r.print(grid([]string{"Command", "Description"}, rows))
}

func (r renderer) catalog(c toolschema.Catalog) {
	if c.Len() == 0 {
		r.print(lipgloss.NewStyle().Foreground(colorWarn).Render("No tools available."))
		return
	}
	rows := make([][]string, 0, c.Len())
	for _, ref := range c.Refs() {
		s, _ := c.Get(ref)
		rows = append(rows, []string{ref.Server, ref.Tool, describeParams(s)})
	}
	r.print(grid([]string{"Server", "Tool", "Arguments"}, rows))
}

func describeParams(s toolschema.Schema) string {
	var parts []string
	for _, name := range s.Properties() {
		if name == toolschema.ParamsKey {
			continue
		}
		parts = append(parts, argName(s, name))
	}
	if p, ok := s.Params(); ok {
		var inner []string
		for _, name := range p.Properties() {
			inner = append(inner, argName(p, name))
		}
		parts = append(parts, "params{"+strings.Join(inner, ", ")+"}")
	} else if s.HasParams() {
		parts = append(parts, "params{…}")
	}
	return strings.Join(parts, ", ")
}

func argName(s toolschema.Schema, name string) string {
	if s.IsRequired(name) {
		return name + "*"
	}
	return name
}

func (r renderer) logs(recs []map[string]any) {
	for _, rec := range recs {
		ts, _ := rec["ts"].(string)
		if t, ok := eventlog.Timestamp(rec); ok {
			ts = t.Format(logTimeLayout)
		}
		kind, _ := rec["kind"].(string)
		rest := make([]string, 0, len(rec))
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if k != "ts" && k != "kind" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := json.Marshal(rec[k])
			rest = append(rest, k+"="+llmutils.Truncate(string(v), 200))
		}
		r.print(mutedStyle.Render(ts) + " " + titleStyle.Render(kind) + " " + strings.Join(rest, " "))
	}
}
