// Package host runs one conversational turn: slash commands, tool routing,
// argument conformance, invocation and summary, with a chat fallback for
// utterances no tool answers.
package host

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/crystaldolphin/autohost/internal/conform"
	"github.com/crystaldolphin/autohost/internal/mcp"
	"github.com/crystaldolphin/autohost/internal/router"
	"github.com/crystaldolphin/autohost/internal/schema"
	"github.com/crystaldolphin/autohost/internal/session"
	"github.com/crystaldolphin/autohost/internal/shared/llmutils"
	"github.com/crystaldolphin/autohost/internal/summarize"
	"github.com/crystaldolphin/autohost/internal/toolschema"
)

// Tools is the tool registry the host routes against.
type Tools interface {
	Catalog(ctx context.Context) toolschema.Catalog
	Invoke(ctx context.Context, ref toolschema.Ref, args map[string]any) (string, error)
}

// Selector picks a tool for an utterance.
type Selector interface {
	Select(ctx context.Context, text string, catalog toolschema.Catalog) router.Resolution
}

// Chatter answers utterances no tool handles.
type Chatter interface {
	ChatTurn(ctx context.Context, system string, history schema.Messages, user string) (string, error)
}

// EventLog is the subset of the event log the host reads and writes.
type EventLog interface {
	Event(kind string, attrs ...any)
	Tail(n int) ([]map[string]any, error)
}

// Kind classifies a Reply.
type Kind string

const (
	KindNone    Kind = "none"
	KindTool    Kind = "tool"
	KindChat    Kind = "chat"
	KindError   Kind = "error"
	KindCommand Kind = "command"
	KindHelp    Kind = "help"
	KindLogs    Kind = "logs"
	KindTools   Kind = "tools"
	KindExit    Kind = "exit"
)

// Diagnostic describes a failed turn with everything needed to reproduce
// the call.
type Diagnostic struct {
	Kind      string            `json:"kind"`
	Server    string            `json:"server,omitempty"`
	Tool      string            `json:"tool,omitempty"`
	Schema    toolschema.Schema `json:"schema"`
	Arguments map[string]any    `json:"arguments"`
	Message   string            `json:"message"`
}

// Diagnostic kinds.
const (
	DiagToolError       = "tool_error"
	DiagInvocationError = "invocation_error"
	DiagChatError       = "chat_error"
)

// Reply is the outcome of one turn, ready for rendering.
type Reply struct {
	Kind       Kind
	TurnID     string
	Text       string
	Ref        toolschema.Ref
	Arguments  map[string]any
	Reasoning  string
	Summary    string
	Preview    *summarize.Table
	Raw        string
	Diagnostic *Diagnostic
	Logs       []map[string]any
	Catalog    toolschema.Catalog
}

// Host wires the pipeline together. Handle is not safe for concurrent use;
// turns are sequential.
type Host struct {
	tools     Tools
	router    Selector
	conformer *conform.Conformer
	chat      Chatter
	session   *session.Session
	events    EventLog
	rows      int
}

// Option customises a Host.
type Option func(*Host)

// WithEventLog records chat_fallback events and serves /logs from l.
func WithEventLog(l EventLog) Option { return func(h *Host) { h.events = l } }

// WithPreviewRows sets the preview table height.
func WithPreviewRows(n int) Option { return func(h *Host) { h.rows = n } }

// New returns a Host.
func New(tools Tools, sel Selector, conformer *conform.Conformer, chat Chatter, sess *session.Session, opts ...Option) *Host {
	h := &Host{
		tools:     tools,
		router:    sel,
		conformer: conformer,
		chat:      chat,
		session:   sess,
		rows:      summarize.DefaultRows,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Session is the conversation buffer.
func (h *Host) Session() *session.Session { return h.session }

// Handle runs one turn. It never fails; errors become a Diagnostic.
func (h *Host) Handle(ctx context.Context, text string) Reply {
	text = strings.TrimSpace(text)
	turn := uuid.NewString()
	if text == "" {
		return Reply{Kind: KindNone, TurnID: turn}
	}
	if strings.HasPrefix(text, "/") {
		r := h.command(ctx, text)
		r.TurnID = turn
		return r
	}

	slog.Info("Processing message", "turn", turn, "content", llmutils.Truncate(text, 80))

	catalog := h.tools.Catalog(ctx)
	res := h.router.Select(ctx, text, catalog)
	if !res.Resolved() {
		return h.fallback(ctx, turn, text, res)
	}
	return h.invoke(ctx, turn, text, res, catalog)
}

func (h *Host) invoke(ctx context.Context, turn, text string, res router.Resolution, catalog toolschema.Catalog) Reply {
	sch, _ := catalog.Get(res.Ref)
	args := h.conformer.Conform(text, res.Arguments, sch)
	if err := sch.Validate(args); err != nil {
		slog.Warn("Arguments do not satisfy input schema, invoking anyway", "tool", res.Ref.String(), "err", err)
	}

	reply := Reply{
		Kind:      KindTool,
		TurnID:    turn,
		Ref:       res.Ref,
		Arguments: args,
		Reasoning: res.Reasoning,
	}

	raw, err := h.tools.Invoke(ctx, res.Ref, args)
	if err != nil {
		reply.Kind = KindError
		reply.Diagnostic = diagnose(err, res.Ref, sch, args)
		reply.Raw = raw
		slog.Warn("Tool call failed", "tool", res.Ref.String(), "kind", reply.Diagnostic.Kind, "err", err)
		h.session.AddUser(text)
		h.session.AddAssistant("The tool " + res.Ref.String() + " failed: " + reply.Diagnostic.Message)
		return reply
	}

	result := summarize.Decode(raw)
	reply.Summary = summarize.Summarize(result, text)
	if tbl, ok := summarize.Preview(result, text, h.rows); ok {
		reply.Preview = &tbl
	}
	reply.Raw = summarize.Pretty(result)

	h.session.AddUser(text)
	h.session.AddAssistant(reply.Summary)
	return reply
}

func (h *Host) fallback(ctx context.Context, turn, text string, res router.Resolution) Reply {
	h.event("chat_fallback", "turn_id", turn, "session_id", h.session.ID(), "reason", res.Reasoning)

	answer, err := h.chat.ChatTurn(ctx, h.session.System(), h.session.History(), text)
	if err != nil {
		slog.Error("Chat fallback failed", "turn", turn, "err", err)
		return Reply{
			Kind:       KindError,
			TurnID:     turn,
			Reasoning:  res.Reasoning,
			Diagnostic: &Diagnostic{Kind: DiagChatError, Arguments: map[string]any{}, Message: err.Error()},
		}
	}
	answer = llmutils.StringOrDefault(answer, "I have no answer to give.")
	h.session.AddUser(text)
	h.session.AddAssistant(answer)
	return Reply{Kind: KindChat, TurnID: turn, Text: answer, Reasoning: res.Reasoning}
}

func (h *Host) event(kind string, attrs ...any) {
	if h.events != nil {
		h.events.Event(kind, attrs...)
	}
}

func diagnose(err error, ref toolschema.Ref, sch toolschema.Schema, args map[string]any) *Diagnostic {
	d := &Diagnostic{Server: ref.Server, Tool: ref.Tool, Schema: sch, Arguments: args, Message: err.Error()}
	var te *mcp.ToolError
	var ie *mcp.InvocationError
	switch {
	case errors.As(err, &te):
		d.Kind = DiagToolError
		d.Message = te.Message
	case errors.As(err, &ie):
		d.Kind = DiagInvocationError
		if ie.Err != nil {
			d.Message = ie.Err.Error()
		}
	default:
		d.Kind = DiagInvocationError
	}
	return d
}
