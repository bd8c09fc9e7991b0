package tool

// MCPServerConfig describes one MCP server connection (stdio or HTTP). The
// same shape is read from config.json and from the YAML servers file.
type MCPServerConfig struct {
	Command string            `json:"command,omitempty" yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env"`
	Cwd     string            `json:"cwd,omitempty" yaml:"cwd"`
	URL     string            `json:"url,omitempty" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers"`
}
