// Package providers implements schema.LLMProvider for OpenAI-compatible
// endpoints and the Anthropic Messages API.
package providers

import "github.com/crystaldolphin/autohost/internal/schema"

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openrouter", "anthropic"
}

// New creates the appropriate schema.LLMProvider for the given params:
// AnthropicProvider for the native Anthropic API, OpenAIProvider for
// everything else, gateways included.
func New(p Params) schema.LLMProvider {
	if newEndpoint(p).native() {
		return NewAnthropicProvider(p)
	}
	return NewOpenAIProvider(p)
}
