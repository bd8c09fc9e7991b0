package session

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/autohost/internal/schema"
)

func TestNew_Defaults(t *testing.T) {
	s := New("", 0)
	assert.Equal(t, DefaultSystemPrompt, s.System())
	assert.Equal(t, DefaultWindow, s.window)
	assert.NotEmpty(t, s.ID())
	assert.Zero(t, s.Len())

	msgs := s.Messages()
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, schema.NewSystemMessage(DefaultSystemPrompt), msgs.Messages[0])
}

func TestSession_Window(t *testing.T) {
	s := New("sys", 4)
	for i := 0; i < 3; i++ {
		s.AddUser(fmt.Sprintf("q%d", i))
		s.AddAssistant(fmt.Sprintf("a%d", i))
	}
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []schema.Message{
		schema.NewUserMessage("q1"),
		schema.NewAssistantMessage("a1"),
		schema.NewUserMessage("q2"),
		schema.NewAssistantMessage("a2"),
	}, s.History().Messages)

	all := s.Messages()
	require.Len(t, all.Messages, 5)
	assert.Equal(t, schema.RoleSystem, all.Messages[0].Role)
}

func TestSession_HistoryIsACopy(t *testing.T) {
	s := New("sys", 10)
	s.AddUser("hello")
	h := s.History()
	h.Messages[0].Content = "changed"
	assert.Equal(t, "hello", s.History().Messages[0].Content)
}

func TestSession_Reset(t *testing.T) {
	s := New("sys", 10)
	id := s.ID()
	s.AddUser("hello")
	s.Reset()
	assert.Zero(t, s.Len())
	assert.NotEqual(t, id, s.ID())
	assert.Equal(t, "sys", s.System())
}

func TestSession_DumpJSON(t *testing.T) {
	s := New("sys", 10)
	s.AddUser("¿qué tal?")
	s.AddAssistant("bien")

	raw, err := s.DumpJSON()
	require.NoError(t, err)
	var got struct {
		ID       string           `json:"id"`
		Messages []schema.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, s.ID(), got.ID)
	assert.Equal(t, []schema.Message{
		schema.NewSystemMessage("sys"),
		schema.NewUserMessage("¿qué tal?"),
		schema.NewAssistantMessage("bien"),
	}, got.Messages)
}
