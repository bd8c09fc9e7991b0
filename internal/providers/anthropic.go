package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crystaldolphin/autohost/internal/schema"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic Messages API directly.
type AnthropicProvider struct {
	endpoint
	httpClient *http.Client
}

// NewAnthropicProvider constructs a provider from raw config values.
func NewAnthropicProvider(p Params) *AnthropicProvider {
	return &AnthropicProvider{
		endpoint:   newEndpoint(p),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *AnthropicProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider. The Messages API has no JSON mode;
// JSONMode is left to the prompt.
func (p *AnthropicProvider) Chat(ctx context.Context, messages schema.Messages, opts schema.ChatOptions) (schema.LLMResponse, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	system, converted := convertMessagesToAnthropic(messages)

	body := map[string]any{
		"model":       p.model(opts.Model),
		"messages":    converted,
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
	}
	if system != "" {
		body["system"] = system
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/messages", bytes.NewReader(data))
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("anthropic HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("read anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errResponse(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw)))
	}

	return parseAnthropicResponse(raw)
}

// convertMessagesToAnthropic lifts system messages into the system prompt
// and merges consecutive messages of the same role, which the API rejects.
func convertMessagesToAnthropic(messages schema.Messages) (string, []map[string]any) {
	var system string
	var out []map[string]any

	for _, msg := range messages.Messages {
		switch msg.Role {
		case schema.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case schema.RoleUser, schema.RoleAssistant:
			if n := len(out); n > 0 && out[n-1]["role"] == msg.Role {
				out[n-1]["content"] = out[n-1]["content"].(string) + "\n\n" + msg.Content
				continue
			}
			out = append(out, map[string]any{"role": msg.Role, "content": msg.Content})
		}
	}
	return system, out
}

// anthropicRespBody models the Anthropic Messages API response.
type anthropicRespBody struct {
	Content []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`     // type=text
		Thinking string `json:"thinking"` // type=thinking
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func parseAnthropicResponse(raw []byte) (schema.LLMResponse, error) {
	var body anthropicRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse Anthropic response: %w", err)
	}

	var content, thinking string
	for _, block := range body.Content {
		switch block.Type {
		case "text":
			content += block.Text
		case "thinking":
			thinking += block.Thinking
		}
	}

	finish := "stop"
	if body.StopReason != "" && body.StopReason != "end_turn" {
		finish = body.StopReason
	}

	return schema.LLMResponse{
		Content:          content,
		FinishReason:     finish,
		ReasoningContent: thinking,
		Usage: map[string]int{
			"prompt_tokens":     body.Usage.InputTokens,
			"completion_tokens": body.Usage.OutputTokens,
			"total_tokens":      body.Usage.InputTokens + body.Usage.OutputTokens,
		},
	}, nil
}
