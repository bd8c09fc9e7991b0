// Package config defines the configuration schema for autohost.
//
// JSON keys use camelCase; the file lives at ~/.autohost/config.json.
package config

import (
	"os"
	"path/filepath"

	"github.com/crystaldolphin/autohost/internal/config/agent"
	"github.com/crystaldolphin/autohost/internal/config/logging"
	"github.com/crystaldolphin/autohost/internal/config/provider"
	"github.com/crystaldolphin/autohost/internal/config/routing"
	"github.com/crystaldolphin/autohost/internal/config/tool"
)

// Config is the root configuration object.
type Config struct {
	Agents    agent.AgentsConfig       `json:"agents"`
	Providers provider.ProvidersConfig `json:"providers"`
	Tools     tool.ToolsConfig         `json:"tools"`
	Routing   routing.RoutingConfig    `json:"routing"`
	Logging   logging.LoggingConfig    `json:"logging"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agents:    agent.DefaultAgentsConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Routing:   routing.DefaultRoutingConfig(),
		Logging:   logging.DefaultLoggingConfig(),
	}
}

// WorkspacePath returns the expanded absolute path to the workspace that
// ${workspace} in server definitions refers to.
func (c *Config) WorkspacePath() string {
	ws := c.Agents.Defaults.Workspace
	if ws == "" {
		ws = "~/.autohost/workspace"
	}
	return expandHome(ws)
}

// ProviderByName returns the credentials for a registry name, or nil.
func (c *Config) ProviderByName(name string) *provider.ProviderConfig {
	return c.Providers.ByName(name)
}

func expandHome(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
