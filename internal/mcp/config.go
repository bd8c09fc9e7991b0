package mcp

import (
	"os"
	"os/exec"
	"strings"
)

// ServerConfig holds the connection parameters for a single MCP server.
// Command-based servers speak line-delimited JSON-RPC over stdio; URL-based
// servers take one JSON-RPC request per HTTP POST.
type ServerConfig struct {
	Command string
	Args    []string
	Env     map[string]string
	Cwd     string
	URL     string
	Headers map[string]string
}

// expand resolves ${workspace} and ${VAR} references. Unset variables are
// left as written.
func (c ServerConfig) expand(workspace string) ServerConfig {
	out := ServerConfig{
		Command: expandVars(c.Command, workspace),
		Cwd:     expandVars(c.Cwd, workspace),
		URL:     expandVars(c.URL, workspace),
		Headers: c.Headers,
	}
	for _, a := range c.Args {
		out.Args = append(out.Args, expandVars(a, workspace))
	}
	if c.Env != nil {
		out.Env = make(map[string]string, len(c.Env))
		for k, v := range c.Env {
			out.Env[k] = expandVars(v, workspace)
		}
	}
	return out
}

func expandVars(s, workspace string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.Expand(s, func(name string) string {
		if name == "workspace" {
			return workspace
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

// runnable reports whether the server can be launched at all.
func (c ServerConfig) runnable() bool {
	if c.URL != "" {
		return true
	}
	cmd := strings.TrimSpace(c.Command)
	if cmd == "" {
		return false
	}
	_, err := exec.LookPath(cmd)
	return err == nil
}

// environ is the parent environment plus the configured extras.
func (c ServerConfig) environ() []string {
	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	return env
}
