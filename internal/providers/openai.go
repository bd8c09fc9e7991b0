package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/crystaldolphin/autohost/internal/schema"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	endpoint
	client *openai.Client
}

// NewOpenAIProvider constructs a provider from raw config values.
func NewOpenAIProvider(p Params) *OpenAIProvider {
	e := newEndpoint(p)
	cfg := openai.DefaultConfig(e.apiKey)
	cfg.BaseURL = e.apiBase
	var transport http.RoundTripper = http.DefaultTransport
	if len(e.extraHeaders) > 0 {
		transport = headerTransport{base: transport, headers: e.extraHeaders}
	}
	cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second, Transport: transport}
	return &OpenAIProvider{endpoint: e, client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider. HTTP-level failures come back as a
// response with FinishReason "error" and the message as content.
func (p *OpenAIProvider) Chat(ctx context.Context, messages schema.Messages, opts schema.ChatOptions) (schema.LLMResponse, error) {
	model := p.model(opts.Model)
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   maxTokens,
		Temperature: wireTemperature(p.temperatureFor(model, opts.Temperature)),
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return errResponse(fmt.Sprintf("HTTP %d: %s", apiErr.HTTPStatusCode, friendlyHTTPError(apiErr.HTTPStatusCode, []byte(apiErr.Message))))
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return errResponse(fmt.Sprintf("HTTP %d: %s", reqErr.HTTPStatusCode, friendlyHTTPError(reqErr.HTTPStatusCode, []byte(reqErr.Error()))))
		}
		return schema.LLMResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("empty choices in response")
	}

	choice := resp.Choices[0]
	finish := string(choice.FinishReason)
	if finish == "" {
		finish = "stop"
	}
	return schema.LLMResponse{
		Content:      choice.Message.Content,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}, nil
}

func toOpenAIMessages(messages schema.Messages) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// wireTemperature keeps an explicit zero: the client omits a zero
// temperature from the request, which servers read as their default.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func errResponse(msg string) (schema.LLMResponse, error) {
	return schema.LLMResponse{Content: msg, FinishReason: "error"}, nil
}
