package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendExchangeCapsHistory(t *testing.T) {
	s := New(BackendGPT)

	for i := 0; i < 12; i++ {
		s.AppendExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	require.Len(t, s.History, HistoryCap)
	// Oldest entries dropped first; the newest exchange is last.
	assert.Equal(t, "q7", s.History[0].Content)
	assert.Equal(t, "user", s.History[0].Role)
	assert.Equal(t, "a11", s.History[len(s.History)-1].Content)
	assert.Equal(t, "assistant", s.History[len(s.History)-1].Role)
}

func TestRecent(t *testing.T) {
	s := New(BackendGPT)
	s.AppendExchange("one", "two")
	s.AppendExchange("three", "four")

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "four", recent[1].Content)

	assert.Len(t, s.Recent(100), 4)
	assert.Nil(t, s.Recent(0))
}

func TestCloneRestore(t *testing.T) {
	s := New(BackendGemini)
	s.AppendExchange("hello", "hi")
	s.LastContact = "alice"

	snap := s.Clone()

	s.Muted = true
	s.AppendExchange("more", "text")
	s.LastContact = "bob"

	s.Restore(snap)
	assert.False(t, s.Muted)
	assert.Equal(t, "alice", s.LastContact)
	assert.Len(t, s.History, 2)
}

func TestCloneIsDeep(t *testing.T) {
	s := New(BackendGPT)
	s.AppendExchange("a", "b")

	c := s.Clone()
	c.History[0].Content = "mutated"
	assert.Equal(t, "a", s.History[0].Content)
}

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"gpt", "gemini", "openrouter", "mistral"} {
		b, ok := ParseBackend(name)
		assert.True(t, ok)
		assert.Equal(t, Backend(name), b)
	}
	_, ok := ParseBackend("claude")
	assert.False(t, ok)
}
