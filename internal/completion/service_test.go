package completion

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/autohost/internal/schema"
)

type fakeProvider struct {
	reply  schema.LLMResponse
	err    error
	gotMsg schema.Messages
	gotOpt schema.ChatOptions
}

func (f *fakeProvider) Chat(_ context.Context, msgs schema.Messages, opts schema.ChatOptions) (schema.LLMResponse, error) {
	f.gotMsg = msgs
	f.gotOpt = opts
	return f.reply, f.err
}

func (f *fakeProvider) DefaultModel() string { return "fake-model" }

func reply(s string) *fakeProvider {
	return &fakeProvider{reply: schema.LLMResponse{Content: s, FinishReason: "stop"}}
}

func TestCompleteJSON(t *testing.T) {
	p := reply("<think>routing</think>```json\n{\"tool_ref\": \"a.b\", \"arguments\": {}}\n```")
	got := New(p).CompleteJSON(context.Background(), "sys", "user", map[string]any{"tool_ref": nil})

	assert.Equal(t, map[string]any{"tool_ref": "a.b", "arguments": map[string]any{}}, got)
	assert.Equal(t, 0.0, p.gotOpt.Temperature)
	assert.True(t, p.gotOpt.JSONMode)
	assert.Equal(t, defaultMaxTokens, p.gotOpt.MaxTokens)
	require.Len(t, p.gotMsg.Messages, 2)
	assert.Equal(t, schema.NewSystemMessage("sys"), p.gotMsg.Messages[0])
}

func TestCompleteJSON_FallbackIsACopy(t *testing.T) {
	fallback := map[string]any{"tool_ref": nil, "arguments": map[string]any{}}
	for name, p := range map[string]*fakeProvider{
		"transport error": {err: errors.New("dial tcp: refused")},
		"provider error":  {reply: schema.LLMResponse{Content: "HTTP 500", FinishReason: "error"}},
		"prose":           reply("I think you want the car tool."),
		"array":           reply(`["a.b"]`),
	} {
		t.Run(name, func(t *testing.T) {
			got := New(p).CompleteJSON(context.Background(), "s", "u", fallback)
			assert.Equal(t, fallback, got)
			got["arguments"].(map[string]any)["x"] = 1
			assert.Empty(t, fallback["arguments"], "fallback must not be shared")
		})
	}
}

func TestCompleteText(t *testing.T) {
	p := reply("<think>x</think>  Paris. ")
	got, err := New(p, WithModel("other")).CompleteText(context.Background(), "s", "capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris.", got)
	assert.Equal(t, "other", p.gotOpt.Model)

	p = &fakeProvider{reply: schema.LLMResponse{Content: "HTTP 429: rate limit exceeded", FinishReason: "error"}}
	_, err = New(p).CompleteText(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "rate limit exceeded")
}

func TestChatTurn(t *testing.T) {
	p := reply("Hi there!")
	history := schema.NewMessages(
		schema.NewSystemMessage("old system"),
		schema.NewUserMessage("hello"),
		schema.NewAssistantMessage("hey"),
	)
	got, err := New(p, WithMaxTokens(800)).ChatTurn(context.Background(), "be nice", history, "how are you?")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", got)
	assert.Equal(t, chatTemperature, p.gotOpt.Temperature)
	assert.Equal(t, 800, p.gotOpt.MaxTokens)
	assert.Equal(t, []schema.Message{
		schema.NewSystemMessage("be nice"),
		schema.NewUserMessage("hello"),
		schema.NewAssistantMessage("hey"),
		schema.NewUserMessage("how are you?"),
	}, p.gotMsg.Messages)
}

func TestEvents(t *testing.T) {
	var buf bytes.Buffer
	events := slog.New(slog.NewJSONHandler(&buf, nil))
	New(reply("ok"), WithEventLog(events)).CompleteText(context.Background(), "s", "u") //nolint:errcheck

	out := buf.String()
	assert.Contains(t, out, `"msg":"llm_request"`)
	assert.Contains(t, out, `"msg":"llm_response"`)
	assert.Contains(t, out, `"model":"fake-model"`)
}
