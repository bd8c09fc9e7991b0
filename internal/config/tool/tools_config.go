package tool

// DefaultServersFile is resolved against the working directory.
const DefaultServersFile = "configs/servers.yaml"

// ToolsConfig groups the MCP server settings.
type ToolsConfig struct {
	MCPServers  map[string]MCPServerConfig `json:"mcpServers"`
	ServersFile string                     `json:"serversFile"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		MCPServers:  map[string]MCPServerConfig{},
		ServersFile: DefaultServersFile,
	}
}
