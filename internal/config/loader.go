package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/crystaldolphin/autohost/internal/config/tool"
	"github.com/crystaldolphin/autohost/internal/providers"
)

// ModelEnv overrides agents.defaults.model when set.
const ModelEnv = "AUTOHOST_MODEL"

// ConfigPath returns the default configuration file path: ~/.autohost/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the autohost data directory: ~/.autohost.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".autohost"
	}
	return filepath.Join(home, ".autohost")
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used.
// On parse failure it logs a warning and returns DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("Failed to parse config, using defaults", "path", path, "err", err)
		cfg2 := DefaultConfig()
		return &cfg2, nil
	}

	return &cfg, nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills empty provider API keys from each provider's registry
// environment variable and applies the model override. A gateway sharing
// its variable with a direct provider is left alone. Callers apply it to
// the running configuration only, never before Save.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	direct := map[string]bool{}
	for _, spec := range providers.PROVIDERS {
		if !spec.IsGateway && spec.EnvKey != "" {
			direct[spec.EnvKey] = true
		}
	}
	for _, spec := range providers.PROVIDERS {
		if spec.EnvKey == "" || (spec.IsGateway && direct[spec.EnvKey]) {
			continue
		}
		p := c.ProviderByName(spec.Name)
		if p == nil || p.APIKey != "" {
			continue
		}
		if v, ok := lookup(spec.EnvKey); ok && v != "" {
			p.APIKey = v
		}
	}
	if v, ok := lookup(ModelEnv); ok && v != "" {
		c.Agents.Defaults.Model = v
	}
}

type serversFile struct {
	Servers map[string]tool.MCPServerConfig `yaml:"servers"`
}

// LoadServersFile reads a YAML server list of the form
//
//	servers:
//	  auto_advisor:
//	    command: python
//	    args: ["-m", "auto_advisor.server"]
//
// A missing file yields no servers and no error.
func LoadServersFile(path string) (map[string]tool.MCPServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read servers file %s: %w", path, err)
	}
	var f serversFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse servers file %s: %w", path, err)
	}
	return f.Servers, nil
}

// MCPServers merges the servers file over tools.mcpServers.
func (c *Config) MCPServers() (map[string]tool.MCPServerConfig, error) {
	out := make(map[string]tool.MCPServerConfig, len(c.Tools.MCPServers))
	for name, s := range c.Tools.MCPServers {
		out[name] = s
	}
	if c.Tools.ServersFile == "" {
		return out, nil
	}
	fromFile, err := LoadServersFile(expandHome(c.Tools.ServersFile))
	if err != nil {
		return out, err
	}
	for name, s := range fromFile {
		out[name] = s
	}
	return out, nil
}
