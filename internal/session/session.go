package session

import "time"

// Backend names a chat completion service the fallback can route to.
type Backend string

const (
	BackendGPT        Backend = "gpt"
	BackendGemini     Backend = "gemini"
	BackendOpenRouter Backend = "openrouter"
	BackendMistral    Backend = "mistral"
)

// ParseBackend validates a spoken backend name.
func ParseBackend(s string) (Backend, bool) {
	switch Backend(s) {
	case BackendGPT, BackendGemini, BackendOpenRouter, BackendMistral:
		return Backend(s), true
	}
	return "", false
}

// HistoryCap bounds the stored chat history; the oldest entries are dropped
// first when it overflows.
const HistoryCap = 10

// Entry is one chat history message.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the in-memory conversational state for one run of the assistant.
// There is exactly one instance, owned by the main loop; handlers receive it
// explicitly and never through package state.
type Session struct {
	Muted       bool
	Asleep      bool
	Backend     Backend
	History     []Entry
	LastContact string

	LastGreetTime  time.Time
	LastGreetIndex int
}

// New returns a session with the given initial backend.
func New(backend Backend) *Session {
	return &Session{
		Backend:        backend,
		LastGreetIndex: -1,
	}
}

// AppendExchange records one user/assistant turn and enforces HistoryCap.
func (s *Session) AppendExchange(user, assistant string) {
	s.History = append(s.History,
		Entry{Role: "user", Content: user},
		Entry{Role: "assistant", Content: assistant},
	)
	if n := len(s.History); n > HistoryCap {
		s.History = append([]Entry(nil), s.History[n-HistoryCap:]...)
	}
}

// Recent returns at most the k newest history entries, oldest first.
func (s *Session) Recent(k int) []Entry {
	if k <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) > k {
		return s.History[len(s.History)-k:]
	}
	return s.History
}

// Clone copies the session so a handler can mutate freely and the caller can
// commit only on success.
func (s *Session) Clone() *Session {
	c := *s
	c.History = append([]Entry(nil), s.History...)
	return &c
}

// Restore overwrites the session with a previously cloned state.
func (s *Session) Restore(from *Session) {
	*s = *from
}
