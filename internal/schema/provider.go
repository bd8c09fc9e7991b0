package schema

import "context"

// ChatOptions configures a single LLM chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// JSONMode asks the backend for a single JSON object where supported.
	JSONMode bool
}

// LLMResponse is the normalised response from any LLM provider.
type LLMResponse struct {
	Content          string
	FinishReason     string
	Usage            map[string]int // "input_tokens", "output_tokens"
	ReasoningContent string         // DeepSeek-R1 / Kimi thinking block
}

// LLMProvider is the interface every LLM backend must satisfy.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, opts ChatOptions) (LLMResponse, error)
	DefaultModel() string
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
