// Package completion wraps an LLM provider with the three call shapes the
// host needs: a JSON object, a plain text answer and a conversational turn.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crystaldolphin/autohost/internal/schema"
	"github.com/crystaldolphin/autohost/internal/shared/llmutils"
)

const (
	defaultMaxTokens = 500
	chatTemperature  = 0.2
)

// Service issues completions through one provider.
type Service struct {
	provider  schema.LLMProvider
	model     string
	maxTokens int
	events    *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithModel overrides the provider's default model.
func WithModel(model string) Option { return func(s *Service) { s.model = model } }

// WithMaxTokens caps every completion.
func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithEventLog records llm_request and llm_response events.
func WithEventLog(l *slog.Logger) Option { return func(s *Service) { s.events = l } }

// New returns a Service backed by provider.
func New(provider schema.LLMProvider, opts ...Option) *Service {
	s := &Service{provider: provider, maxTokens: defaultMaxTokens}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Model is the model requests are sent to.
func (s *Service) Model() string {
	if s.model != "" {
		return s.model
	}
	return s.provider.DefaultModel()
}

// CompleteJSON asks for a single JSON object at temperature 0. Any failure,
// from transport to an unparsable reply, yields a copy of fallback.
func (s *Service) CompleteJSON(ctx context.Context, system, user string, fallback map[string]any) map[string]any {
	msgs := schema.NewMessages(schema.NewSystemMessage(system), schema.NewUserMessage(user))
	reply, err := s.complete(ctx, "json", msgs, schema.ChatOptions{Temperature: 0, JSONMode: true})
	if err != nil {
		slog.Warn("JSON completion failed, using fallback", "err", err)
		return cloneObject(fallback)
	}
	out, ok := llmutils.DecodeObject(reply)
	if !ok {
		slog.Warn("JSON completion unparsable, using fallback", "reply", llmutils.Truncate(reply, 200))
		return cloneObject(fallback)
	}
	return out
}

// CompleteText returns the model's plain answer to one prompt.
func (s *Service) CompleteText(ctx context.Context, system, user string) (string, error) {
	msgs := schema.NewMessages(schema.NewSystemMessage(system), schema.NewUserMessage(user))
	reply, err := s.complete(ctx, "text", msgs, schema.ChatOptions{Temperature: 0})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(llmutils.StripThink(reply)), nil
}

// ChatTurn answers user given the conversation so far. System messages in
// history are ignored in favour of system.
func (s *Service) ChatTurn(ctx context.Context, system string, history schema.Messages, user string) (string, error) {
	msgs := schema.NewMessages()
	if system != "" {
		msgs.AddSystem(system)
	}
	for _, m := range history.Messages {
		if m.Role != schema.RoleSystem {
			msgs.Messages = append(msgs.Messages, m)
		}
	}
	msgs.AddUser(user)
	reply, err := s.complete(ctx, "chat", msgs, schema.ChatOptions{Temperature: chatTemperature})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(llmutils.StripThink(reply)), nil
}

func (s *Service) complete(ctx context.Context, purpose string, msgs schema.Messages, opts schema.ChatOptions) (string, error) {
	opts.Model = s.model
	opts.MaxTokens = s.maxTokens
	s.event("llm_request", "purpose", purpose, "model", s.Model(), "messages", msgs.Len())

	resp, err := s.provider.Chat(ctx, msgs, opts)
	if err != nil {
		s.event("llm_response", "purpose", purpose, "error", err.Error())
		return "", fmt.Errorf("llm %s completion: %w", purpose, err)
	}
	s.event("llm_response", "purpose", purpose, "model", s.Model(), "chars", len(resp.Content), "finish_reason", resp.FinishReason)
	if resp.FinishReason == "error" {
		return "", fmt.Errorf("llm %s completion: %w", purpose, errors.New(resp.Content))
	}
	return resp.Content, nil
}

func (s *Service) event(kind string, attrs ...any) {
	if s.events != nil {
		s.events.Info(kind, attrs...)
	}
}

// cloneObject deep-copies the maps and slices of a decoded JSON object.
func cloneObject(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneObject(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
