// Package router turns an utterance into exactly one catalog tool and a
// loose set of arguments, or decides that no tool applies.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crystaldolphin/autohost/internal/normalize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

const systemPrompt = "You are a router. Pick exactly one available tool and output JSON with keys: " +
	`{"tool_ref": "server.tool" | null, "arguments": {..}, "reasoning_summary": "..."}. ` +
	"Only choose from the provided tools."

const noTools = "No tools available."

// Completer is the slice of the completion service the router needs.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string, fallback map[string]any) map[string]any
}

// State is a step of the selection state machine.
type State int

const (
	AwaitingProposal State = iota
	Validating
	Valid
	Repairing
	Resolved
	Unresolved
)

func (s State) String() string {
	switch s {
	case AwaitingProposal:
		return "awaiting_proposal"
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Repairing:
		return "repairing"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Source records what produced the selected tool.
type Source string

const (
	SourceModel     Source = "model"
	SourceHeuristic Source = "heuristic"
	SourceCommand   Source = "command"
	SourceNone      Source = "none"
)

// Proposal is the model's unchecked suggestion.
type Proposal struct {
	ToolRef   string
	Arguments map[string]any
	Reasoning string
}

// Resolution is the router's verdict. Arguments are loose: they still need
// to be conformed to the tool's schema.
type Resolution struct {
	State     State
	Ref       toolschema.Ref
	Domain    Domain
	Arguments map[string]any
	Reasoning string
	Source    Source
	Rule      string
	Path      []State
}

// Resolved reports whether a tool was selected.
func (r Resolution) Resolved() bool { return r.State == Resolved }

// Router selects tools. Rule tables are fixed at construction.
type Router struct {
	llm        Completer
	categories []Category
	rules      []Rule
	commands   []QuickCommand
	builders   []argBuilder
	domains    map[string]Domain
	events     *slog.Logger
}

// Option customises a Router.
type Option func(*Router)

// WithRules replaces the repair rule table.
func WithRules(rules []Rule) Option { return func(r *Router) { r.rules = rules } }

// WithCategories replaces the privileged server categories.
func WithCategories(c []Category) Option { return func(r *Router) { r.categories = c } }

// WithQuickCommands replaces the literal command table.
func WithQuickCommands(c []QuickCommand) Option { return func(r *Router) { r.commands = c } }

// WithDomains adds or overrides server to domain mappings.
func WithDomains(d map[string]Domain) Option {
	return func(r *Router) {
		for k, v := range d {
			r.domains[k] = v
		}
	}
}

// WithEventLog sends route events to l.
func WithEventLog(l *slog.Logger) Option { return func(r *Router) { r.events = l } }

// New returns a Router backed by llm.
func New(llm Completer, opts ...Option) *Router {
	r := &Router{
		llm:        llm,
		categories: DefaultCategories(),
		rules:      DefaultRules(),
		commands:   DefaultQuickCommands(),
		builders:   defaultBuilders(),
		domains:    DefaultDomains(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Select runs one utterance through the state machine. It never fails:
// every problem degrades to a repair attempt or to Unresolved.
func (r *Router) Select(ctx context.Context, text string, catalog toolschema.Catalog) Resolution {
	folded := normalize.Fold(text)
	res := Resolution{State: AwaitingProposal, Source: SourceNone, Arguments: map[string]any{}}
	res.Path = append(res.Path, AwaitingProposal)

	p := r.propose(ctx, text, catalog)
	res.Reasoning = p.Reasoning

	res.advance(Validating)
	if ref, ok := catalog.Lookup(p.ToolRef); ok && r.allowed(ref, folded) {
		res.advance(Valid)
		res.Ref = ref
		res.Arguments = cloneArgs(p.Arguments)
		res.Source = SourceModel
	} else {
		res.advance(Repairing)
		if p.ToolRef != "" {
			res.Reasoning = annotate(res.Reasoning, rejectionNote(p.ToolRef, ok, ref))
		}
		if ref, rule, found := r.repair(folded, catalog); found {
			res.Ref = ref
			// Keys the repaired tool does not declare are dropped when conforming.
			res.Arguments = cloneArgs(p.Arguments)
			res.Source = SourceHeuristic
			res.Rule = rule
			rulesFiredTotal.WithLabelValues(rule).Inc()
		}
	}

	if !res.Ref.IsZero() {
		res.Domain = r.domainOf(res.Ref.Server)
		r.postProcess(text, &res, catalog)
	}

	r.applyQuickCommands(text, &res, catalog)

	if res.Ref.IsZero() {
		res.advance(Unresolved)
		if res.Reasoning == "" {
			res.Reasoning = noTools
		}
	} else {
		res.advance(Resolved)
	}

	resolutionsTotal.WithLabelValues(res.State.String(), string(res.Source)).Inc()
	r.logRoute(text, res)
	return res
}

func (r *Router) propose(ctx context.Context, text string, catalog toolschema.Catalog) Proposal {
	var lines []string
	for _, name := range catalog.Names() {
		lines = append(lines, "- "+name)
	}
	user := fmt.Sprintf("User query: %s\n\nAvailable tools:\n%s\n\nReturn ONLY JSON, no prose.",
		text, strings.Join(lines, "\n"))

	fallback := map[string]any{"tool_ref": nil, "arguments": map[string]any{}, "reasoning_summary": noTools}
	out := fallback
	if r.llm != nil && catalog.Len() > 0 {
		out = r.llm.CompleteJSON(ctx, systemPrompt, user, fallback)
	}
	return decodeProposal(out)
}

// decodeProposal tolerates wrong field types: a non-string tool_ref is no
// proposal and non-object arguments become empty.
func decodeProposal(out map[string]any) Proposal {
	var p Proposal
	if s, ok := out["tool_ref"].(string); ok {
		p.ToolRef = strings.TrimSpace(s)
	}
	if args, ok := out["arguments"].(map[string]any); ok {
		p.Arguments = args
	} else {
		p.Arguments = map[string]any{}
	}
	if s, ok := out["reasoning_summary"].(string); ok {
		p.Reasoning = s
	}
	return p
}

// allowed applies the intent gate to privileged servers.
func (r *Router) allowed(ref toolschema.Ref, folded string) bool {
	for _, c := range r.categories {
		for _, s := range c.Servers {
			if s == ref.Server && !c.Keywords.Match(folded) {
				gateRejectionsTotal.WithLabelValues(c.Name).Inc()
				return false
			}
		}
	}
	return true
}

// repair walks the rule table in order.
func (r *Router) repair(folded string, catalog toolschema.Catalog) (toolschema.Ref, string, bool) {
	for _, rule := range r.rules {
		if !rule.matches(folded) {
			continue
		}
		for _, target := range rule.Targets {
			if ref, ok := catalog.Lookup(target); ok && r.allowed(ref, folded) {
				return ref, rule.Name, true
			}
		}
	}
	return toolschema.Ref{}, "", false
}

func (r *Router) postProcess(text string, res *Resolution, catalog toolschema.Catalog) {
	var hints *normalize.Hints
	for _, b := range r.builders {
		if b.tool != res.Ref.Tool || b.domain != res.Domain {
			continue
		}
		if hints == nil {
			h := normalize.Extract(text)
			hints = &h
		}
		b.build(text, *hints, res, catalog)
	}
}

// applyQuickCommands runs last so a literal command always wins.
func (r *Router) applyQuickCommands(text string, res *Resolution, catalog toolschema.Catalog) {
	for _, qc := range r.commands {
		args, ok := qc.Parse(text)
		if !ok {
			continue
		}
		ref, found := catalog.FindTool(qc.Tool)
		if !found {
			continue
		}
		res.Ref = ref
		res.Domain = r.domainOf(ref.Server)
		res.Arguments = args
		res.Source = SourceCommand
		res.Rule = qc.Name
		res.Reasoning = annotate(res.Reasoning, "quick command "+qc.Name)
		rulesFiredTotal.WithLabelValues("command:" + qc.Name).Inc()
		return
	}
}

func (r *Router) logRoute(text string, res Resolution) {
	if r.events == nil {
		return
	}
	path := make([]string, len(res.Path))
	for i, s := range res.Path {
		path[i] = s.String()
	}
	r.events.Info("route",
		"query", text,
		"state", res.State.String(),
		"tool_ref", refString(res.Ref),
		"domain", res.Domain.String(),
		"source", string(res.Source),
		"rule", res.Rule,
		"path", path,
		"reasoning", res.Reasoning,
	)
}

func (res *Resolution) advance(s State) {
	res.State = s
	res.Path = append(res.Path, s)
}

func rejectionNote(proposed string, inCatalog bool, ref toolschema.Ref) string {
	if !inCatalog {
		return fmt.Sprintf("proposed %q is not in the catalog", proposed)
	}
	return fmt.Sprintf("proposed %s lacks matching intent", ref)
}

func annotate(reasoning, note string) string {
	if reasoning == "" || reasoning == noTools {
		return note
	}
	return reasoning + " (" + note + ")"
}

func refString(ref toolschema.Ref) string {
	if ref.IsZero() {
		return ""
	}
	return ref.String()
}
