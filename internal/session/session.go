// Package session keeps the bounded conversation buffer behind the chat
// fallback.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crystaldolphin/autohost/internal/schema"
)

// DefaultSystemPrompt opens every conversation.
const DefaultSystemPrompt = "You are a helpful assistant. Respond with factual accuracy and conciseness. Maintain context across turns."

// DefaultWindow is the number of user and assistant messages kept.
const DefaultWindow = 20

// Session holds one system message and the most recent turns.
type Session struct {
	mu        sync.Mutex
	id        string
	system    string
	window    int
	messages  []schema.Message
	createdAt time.Time
	updatedAt time.Time
}

// New returns an empty session. A blank system prompt or a non-positive
// window selects the defaults.
func New(system string, window int) *Session {
	if system == "" {
		system = DefaultSystemPrompt
	}
	if window <= 0 {
		window = DefaultWindow
	}
	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		system:    system,
		window:    window,
		createdAt: now,
		updatedAt: now,
	}
}

// ID identifies the conversation in the event log. Reset issues a new one.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// System is the system prompt.
func (s *Session) System() string { return s.system }

// AddUser appends a user message.
func (s *Session) AddUser(content string) {
	s.add(schema.NewUserMessage(content))
}

// AddAssistant appends an assistant message.
func (s *Session) AddAssistant(content string) {
	s.add(schema.NewAssistantMessage(content))
}

func (s *Session) add(m schema.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	if over := len(s.messages) - s.window; over > 0 {
		tail := make([]schema.Message, s.window)
		copy(tail, s.messages[over:])
		s.messages = tail
	}
	s.updatedAt = time.Now()
}

// History returns the windowed user and assistant messages.
func (s *Session) History() schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.NewMessages(s.messages...)
}

// Messages returns the system message followed by History.
func (s *Session) Messages() schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := schema.NewMessages(schema.NewSystemMessage(s.system))
	out.Messages = append(out.Messages, s.messages...)
	return out
}

// Len is the number of windowed messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Reset clears the history and starts a new conversation ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.id = uuid.NewString()
	s.createdAt = time.Now()
	s.updatedAt = s.createdAt
}

type dump struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []schema.Message `json:"messages"`
}

// DumpJSON renders the full conversation, system message included.
func (s *Session) DumpJSON() ([]byte, error) {
	msgs := s.Messages()
	s.mu.Lock()
	d := dump{ID: s.id, CreatedAt: s.createdAt.UTC(), UpdatedAt: s.updatedAt.UTC(), Messages: msgs.Messages}
	s.mu.Unlock()
	return json.MarshalIndent(d, "", "  ")
}
