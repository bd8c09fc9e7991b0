package agent

type AgentDefaults struct {
	Workspace    string  `json:"workspace"`
	Model        string  `json:"model"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
	MemoryWindow int     `json:"memoryWindow"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
	PreviewRows  int     `json:"previewRows"`
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Workspace:    "~/.autohost/workspace",
		Model:        "openai/gpt-4o-mini",
		MaxTokens:    500,
		Temperature:  0.2,
		MemoryWindow: 20,
		PreviewRows:  3,
	}
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults()}
}
