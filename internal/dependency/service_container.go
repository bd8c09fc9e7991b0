// Package dependency wires core autohost services using go.uber.org/dig.
package dependency

import (
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	"github.com/crystaldolphin/autohost/internal/completion"
	"github.com/crystaldolphin/autohost/internal/config"
	"github.com/crystaldolphin/autohost/internal/conform"
	"github.com/crystaldolphin/autohost/internal/eventlog"
	"github.com/crystaldolphin/autohost/internal/host"
	"github.com/crystaldolphin/autohost/internal/mcp"
	"github.com/crystaldolphin/autohost/internal/normalize"
	"github.com/crystaldolphin/autohost/internal/providers"
	"github.com/crystaldolphin/autohost/internal/router"
	"github.com/crystaldolphin/autohost/internal/schema"
	"github.com/crystaldolphin/autohost/internal/session"
)

// ServiceContainer holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type ServiceContainer struct {
	provider   schema.LLMProvider
	completion *completion.Service
	events     *eventlog.Log
	mcp        *mcp.Manager
	host       *host.Host
}

func (c *ServiceContainer) Provider() schema.LLMProvider    { return c.provider }
func (c *ServiceContainer) Completion() *completion.Service { return c.completion }
func (c *ServiceContainer) EventLog() *eventlog.Log         { return c.events }
func (c *ServiceContainer) MCP() *mcp.Manager               { return c.mcp }
func (c *ServiceContainer) Host() *host.Host                { return c.host }

// Close stops the tool servers and closes the event log.
func (c *ServiceContainer) Close() {
	c.mcp.Close()
	if err := c.events.Close(); err != nil {
		slog.Warn("Closing event log failed", "err", err)
	}
}

// LLMModel is a named string type so dig can distinguish it from plain
// strings when injecting the effective model name.
type LLMModel string

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*ServiceContainer, error) {
	d := dig.New()

	for _, ctor := range []any{
		func() *config.Config { return cfg },
		newEventLog,
		newProvider,
		resolveLLMModel,
		newCompletion,
		newMCPManager,
		newRouter,
		conform.New,
		newSession,
		newHost,
	} {
		if err := d.Provide(ctor); err != nil {
			return nil, err
		}
	}

	var result *ServiceContainer
	err := d.Invoke(func(
		provider schema.LLMProvider,
		svc *completion.Service,
		events *eventlog.Log,
		mgr *mcp.Manager,
		h *host.Host,
	) {
		result = &ServiceContainer{
			provider:   provider,
			completion: svc,
			events:     events,
			mcp:        mgr,
			host:       h,
		}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}
	return result, nil
}

func newEventLog(cfg *config.Config) (*eventlog.Log, error) {
	return eventlog.Open(cfg.Logging.EventLog)
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	p := cfg.ProviderParams()
	if p.APIKey == "" && !isLocal(p) {
		return nil, fmt.Errorf("no API key configured for model %q: edit %s or set the provider's API key variable",
			p.DefaultModel, config.ConfigPath())
	}
	return providers.New(p), nil
}

func isLocal(p providers.Params) bool {
	spec := providers.FindByName(p.ProviderName)
	return spec != nil && spec.IsLocal && p.APIBase != ""
}

func resolveLLMModel(cfg *config.Config, p schema.LLMProvider) LLMModel {
	m := cfg.Agents.Defaults.Model
	if m == "" {
		m = p.DefaultModel()
	}
	return LLMModel(m)
}

func newCompletion(cfg *config.Config, p schema.LLMProvider, m LLMModel, events *eventlog.Log) *completion.Service {
	return completion.New(p,
		completion.WithModel(string(m)),
		completion.WithMaxTokens(cfg.Agents.Defaults.MaxTokens),
		completion.WithEventLog(events.Logger()),
	)
}

func newMCPManager(cfg *config.Config, events *eventlog.Log) *mcp.Manager {
	return NewMCPManager(cfg, events.Logger())
}

// NewMCPManager builds the tool server manager alone, for commands that do
// not talk to a model.
func NewMCPManager(cfg *config.Config, events *slog.Logger) *mcp.Manager {
	defs, err := cfg.MCPServers()
	if err != nil {
		slog.Warn("Servers file ignored", "path", cfg.Tools.ServersFile, "err", err)
	}
	servers := make(map[string]mcp.ServerConfig, len(defs))
	for name, d := range defs {
		servers[name] = mcp.ServerConfig{
			Command: d.Command,
			Args:    d.Args,
			Env:     d.Env,
			Cwd:     d.Cwd,
			URL:     d.URL,
			Headers: d.Headers,
		}
	}
	return mcp.NewManager(servers, cfg.WorkspacePath(), mcp.WithEventLog(events))
}

func newRouter(cfg *config.Config, svc *completion.Service, events *eventlog.Log) *router.Router {
	opts := []router.Option{router.WithEventLog(events.Logger())}

	if groups := cfg.Routing.Privileged; len(groups) > 0 {
		cats := make([]router.Category, 0, len(groups))
		for _, g := range groups {
			cats = append(cats, router.Category{
				Name:     g.Name,
				Servers:  g.Servers,
				Keywords: normalize.NewKeywords(g.Keywords...),
			})
		}
		opts = append(opts, router.WithCategories(cats))
	}

	domains := map[string]router.Domain{}
	for server, name := range cfg.Routing.Domains {
		d, ok := router.ParseDomain(name)
		if !ok {
			slog.Warn("Unknown routing domain ignored", "server", server, "domain", name)
			continue
		}
		domains[server] = d
	}
	opts = append(opts, router.WithDomains(domains))

	return router.New(svc, opts...)
}

func newSession(cfg *config.Config) *session.Session {
	return session.New(cfg.Agents.Defaults.SystemPrompt, cfg.Agents.Defaults.MemoryWindow)
}

func newHost(
	cfg *config.Config,
	mgr *mcp.Manager,
	r *router.Router,
	c *conform.Conformer,
	svc *completion.Service,
	sess *session.Session,
	events *eventlog.Log,
) *host.Host {
	return host.New(mgr, r, c, svc, sess,
		host.WithEventLog(events),
		host.WithPreviewRows(cfg.Agents.Defaults.PreviewRows),
	)
}
