// Package mcp connects to MCP tool servers, builds the tool catalog and
// invokes tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/autohost/internal/toolschema"
)

const (
	startTimeout = 30 * time.Second
	initTimeout  = 20 * time.Second
)

// Manager owns the lifecycle of all MCP server connections for one host.
type Manager struct {
	servers   map[string]ServerConfig
	workspace string
	events    *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	once    sync.Once
}

// Option customises a Manager.
type Option func(*Manager)

// WithEventLog records mcp_request, mcp_response and mcp_error events.
func WithEventLog(l *slog.Logger) Option { return func(m *Manager) { m.events = l } }

// NewManager returns a Manager for servers. workspace replaces ${workspace}
// in server definitions.
func NewManager(servers map[string]ServerConfig, workspace string, opts ...Option) *Manager {
	m := &Manager{
		servers:   servers,
		workspace: workspace,
		clients:   map[string]*client{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start connects to every runnable server concurrently. It runs at most
// once; servers that fail to start are logged and skipped.
func (m *Manager) Start(ctx context.Context) {
	m.once.Do(func() {
		var g errgroup.Group
		for name, raw := range m.servers {
			cfg := raw.expand(m.workspace)
			if !cfg.runnable() {
				slog.Warn("MCP server skipped: command not runnable", "server", name, "command", cfg.Command)
				continue
			}
			g.Go(func() error {
				m.startOne(ctx, name, cfg)
				return nil
			})
		}
		g.Wait() //nolint:errcheck
	})
}

func (m *Manager) startOne(ctx context.Context, name string, cfg ServerConfig) {
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	initCtx, cancelInit := context.WithTimeout(ctx, initTimeout)
	defer cancelInit()

	c := newClient(name, cfg)
	m.event("mcp_request", "server", name, "op", "connect", "command", cfg.Command, "args", cfg.Args, "url", cfg.URL)
	if err := c.connect(initCtx); err != nil {
		slog.Error("MCP server connect failed", "server", name, "err", err)
		m.event("mcp_error", "server", name, "op", "connect", "error", err.Error())
		return
	}
	m.mu.Lock()
	m.clients[name] = c
	m.mu.Unlock()
	slog.Info("MCP server connected", "server", name)
}

// Servers lists the connected servers in name order.
func (m *Manager) Servers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.clients))
	for n := range m.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Catalog lists the tools of every connected server. A server whose
// listing fails contributes nothing; a schema that does not parse becomes
// an empty object schema.
func (m *Manager) Catalog(ctx context.Context) toolschema.Catalog {
	entries := map[toolschema.Ref]toolschema.Schema{}
	for _, name := range m.Servers() {
		c := m.client(name)
		defs, err := c.listTools(ctx)
		if err != nil {
			slog.Error("MCP server list_tools failed", "server", name, "err", err)
			m.event("mcp_error", "server", name, "op", "tools.list", "error", err.Error())
			continue
		}
		names := make([]string, 0, len(defs))
		for _, d := range defs {
			if d.Name == "" {
				continue
			}
			s, err := toolschema.Parse(d.InputSchema)
			if err != nil {
				slog.Warn("MCP tool schema unreadable", "server", name, "tool", d.Name, "err", err)
				s = toolschema.Schema{}
			}
			entries[toolschema.Ref{Server: name, Tool: d.Name}] = s
			names = append(names, d.Name)
		}
		m.event("mcp_response", "server", name, "op", "tools.list", "tools", names)
		slog.Debug("MCP tools listed", "server", name, "tools", len(names))
	}
	return toolschema.NewCatalog(entries)
}

// Invoke calls one tool. A tool reporting isError yields *ToolError; any
// transport failure, or an unknown server, yields *InvocationError.
func (m *Manager) Invoke(ctx context.Context, ref toolschema.Ref, args map[string]any) (string, error) {
	c := m.client(ref.Server)
	if c == nil {
		invocationsTotal.WithLabelValues(ref.Server, "invocation_error").Inc()
		err := &InvocationError{Server: ref.Server, Tool: ref.Tool, Err: fmt.Errorf("server %q not started", ref.Server)}
		m.event("mcp_error", "server", ref.Server, "tool", ref.Tool, "op", "tools.call", "error", err.Error())
		return "", err
	}

	m.event("mcp_request", "server", ref.Server, "tool", ref.Tool, "op", "tools.call", "input", args)
	res, err := c.callTool(ctx, ref.Tool, args)
	if err != nil {
		invocationsTotal.WithLabelValues(ref.Server, "invocation_error").Inc()
		m.event("mcp_error", "server", ref.Server, "tool", ref.Tool, "op", "tools.call", "error", err.Error())
		return "", &InvocationError{Server: ref.Server, Tool: ref.Tool, Err: err}
	}
	m.event("mcp_response", "server", ref.Server, "tool", ref.Tool, "op", "tools.call", "output", res.Text, "is_error", res.IsError)
	if res.IsError {
		invocationsTotal.WithLabelValues(ref.Server, "tool_error").Inc()
		return res.Text, &ToolError{Server: ref.Server, Tool: ref.Tool, Message: res.Text}
	}
	invocationsTotal.WithLabelValues(ref.Server, "ok").Inc()
	return res.Text, nil
}

// Close stops all subprocess-based MCP servers owned by this manager.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, c := range m.clients {
		c.close()
		delete(m.clients, name)
	}
}

func (m *Manager) client(name string) *client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[name]
}

func (m *Manager) event(kind string, attrs ...any) {
	if m.events != nil {
		m.events.Info(kind, attrs...)
	}
}
