package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/crystaldolphin/autohost/internal/config/tool"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model":     "openai/gpt-4o",
				"maxTokens": 4096,
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agents.Defaults.Model != "openai/gpt-4o" {
		t.Errorf("expected model %q, got %q", "openai/gpt-4o", cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.MaxTokens != 4096 {
		t.Errorf("expected maxTokens 4096, got %d", cfg.Agents.Defaults.MaxTokens)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.EventLog != "logs/host.jsonl" {
		t.Errorf("expected default event log, got %q", cfg.Logging.EventLog)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	original := DefaultConfig()
	original.Agents.Defaults.Model = "anthropic/claude-sonnet-4"
	original.Agents.Defaults.MaxTokens = 1234

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Agents.Defaults.Model != original.Agents.Defaults.Model {
		t.Errorf("model mismatch: got %q, want %q", loaded.Agents.Defaults.Model, original.Agents.Defaults.Model)
	}
	if loaded.Agents.Defaults.MaxTokens != original.Agents.Defaults.MaxTokens {
		t.Errorf("maxTokens mismatch: got %d, want %d", loaded.Agents.Defaults.MaxTokens, original.Agents.Defaults.MaxTokens)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	dir := t.TempDir()
	// Only set one field; the rest should come from DefaultConfig.
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model": "custom/model",
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != "custom/model" {
		t.Errorf("expected model %q, got %q", "custom/model", cfg.Agents.Defaults.Model)
	}
	// Unset fields should retain their defaults.
	if cfg.Agents.Defaults.Temperature != def.Agents.Defaults.Temperature {
		t.Errorf("expected default temperature %v, got %v", def.Agents.Defaults.Temperature, cfg.Agents.Defaults.Temperature)
	}
	if cfg.Agents.Defaults.MemoryWindow != def.Agents.Defaults.MemoryWindow {
		t.Errorf("expected default memoryWindow %d, got %d", def.Agents.Defaults.MemoryWindow, cfg.Agents.Defaults.MemoryWindow)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":    "sk-env",
		"ANTHROPIC_API_KEY": "ak-env",
		ModelEnv:            "anthropic/claude-sonnet-4",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	cfg.Providers.Anthropic.APIKey = "ak-file"
	cfg.ApplyEnv(lookup)

	if cfg.Providers.OpenAI.APIKey != "sk-env" {
		t.Errorf("openai key from env: got %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Providers.Anthropic.APIKey != "ak-file" {
		t.Errorf("file key must win over env: got %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.Providers.AiHubMix.APIKey != "" {
		t.Errorf("gateway sharing OPENAI_API_KEY must stay empty: got %q", cfg.Providers.AiHubMix.APIKey)
	}
	if cfg.Agents.Defaults.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("model override: got %q", cfg.Agents.Defaults.Model)
	}
}

func TestProviderParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agents.Defaults.Model = "deepseek/deepseek-chat"
	cfg.Providers.DeepSeek.APIKey = "dk"
	cfg.Providers.OpenAI.APIKey = "sk"

	p := cfg.ProviderParams()
	if p.ProviderName != "deepseek" || p.APIKey != "dk" {
		t.Errorf("expected deepseek with its key, got %q / %q", p.ProviderName, p.APIKey)
	}
	if p.APIBase != "https://api.deepseek.com/v1" {
		t.Errorf("expected registry base, got %q", p.APIBase)
	}

	cfg.Agents.Defaults.Model = "some-unknown-model"
	if got := cfg.ProviderParams().ProviderName; got != "openai" {
		t.Errorf("expected fallback to the first configured provider, got %q", got)
	}
}

func TestLoadServersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.yaml")
	yml := `servers:
  auto_advisor:
    command: python
    args: ["-m", "auto_advisor.server"]
    env:
      DATA_DIR: ${workspace}/data
    cwd: ${workspace}
  remote:
    url: https://tools.example.com/mcp
    headers:
      Authorization: Bearer ${TOOLS_TOKEN}
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	servers, err := LoadServersFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aa := servers["auto_advisor"]
	if aa.Command != "python" || len(aa.Args) != 2 || aa.Args[1] != "auto_advisor.server" {
		t.Errorf("unexpected stdio server: %+v", aa)
	}
	if aa.Env["DATA_DIR"] != "${workspace}/data" || aa.Cwd != "${workspace}" {
		t.Errorf("variables must be left for launch-time expansion: %+v", aa)
	}
	if servers["remote"].URL != "https://tools.example.com/mcp" {
		t.Errorf("unexpected http server: %+v", servers["remote"])
	}

	missing, err := LoadServersFile(filepath.Join(dir, "none.yaml"))
	if err != nil || missing != nil {
		t.Errorf("missing file should yield nothing, got %v, %v", missing, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("servers: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadServersFile(bad); err == nil {
		t.Error("expected a parse error")
	}
}

func TestMCPServers_FileOverridesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.yaml")
	yml := "servers:\n  cars:\n    command: cars-from-yaml\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Tools.ServersFile = path
	cfg.Tools.MCPServers["cars"] = tool.MCPServerConfig{Command: "cars-from-json"}
	cfg.Tools.MCPServers["git"] = tool.MCPServerConfig{Command: "git-mcp"}

	servers, err := cfg.MCPServers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}
	if servers["cars"].Command != "cars-from-yaml" {
		t.Errorf("yaml entry must win, got %q", servers["cars"].Command)
	}
	if servers["git"].Command != "git-mcp" {
		t.Errorf("json-only entry must survive, got %q", servers["git"].Command)
	}
}
