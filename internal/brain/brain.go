// Package brain is the AI chat fallback: utterances no rule matched are
// forwarded, with a trimmed rolling history, to whichever backend the session
// currently selects. There is one conversation shared across backends;
// switching backends never clears history.
package brain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

// ErrNotConfigured means the selected backend has no credentials.
var ErrNotConfigured = errors.New("backend not configured")

// ErrNetwork means the backend was configured but unreachable or timed out.
var ErrNetwork = errors.New("backend unreachable")

// SentWindow is how many history entries accompany each request. Smaller than
// the session cap on purpose: older history stays in the session record but is
// not sent.
const SentWindow = 8

// RequestTimeout bounds every completion call.
const RequestTimeout = 40 * time.Second

const personaPrompt = "You are NASDX, a personal AI assistant. Your persona is polite, witty, " +
	"and exceptionally intelligent with a formal British tone. Always address the user as '%s'. " +
	"Keep answers concise and never use emoji. You are proactive, efficient, and occasionally humorous."

// Completer is one chat backend.
type Completer interface {
	Complete(ctx context.Context, system string, history []session.Entry, user string) (string, error)
	Configured() bool
}

// Brain routes fallback utterances to the session's active backend.
type Brain struct {
	backends map[session.Backend]Completer
	persona  string
}

// New wires the four reference backends. httpClient may be nil; pass a SOCKS
// client to route OpenAI-compatible traffic through a proxy.
func New(keys config.Keys, models config.ModelConfig, honorific string, httpClient *http.Client) *Brain {
	return &Brain{
		persona: fmt.Sprintf(personaPrompt, honorific),
		backends: map[session.Backend]Completer{
			session.BackendGPT:        newOpenAIBackend(keys.OpenAI, "", models.GPT, httpClient),
			session.BackendOpenRouter: newOpenAIBackend(keys.OpenRouter, openRouterBaseURL, models.OpenRouter, httpClient),
			session.BackendMistral:    newOpenAIBackend(keys.Mistral, openRouterBaseURL, models.Mistral, httpClient),
			session.BackendGemini:     newGeminiBackend(keys.Gemini, models.Gemini),
		},
	}
}

// WithBackend replaces one backend, used by tests and by embedders that bring
// their own completion service.
func (b *Brain) WithBackend(name session.Backend, c Completer) *Brain {
	b.backends[name] = c
	return b
}

// Configured reports whether the named backend has credentials.
func (b *Brain) Configured(name session.Backend) bool {
	c, ok := b.backends[name]
	return ok && c.Configured()
}

// Reply forwards the utterance to the active backend. On success the exchange
// is appended to the session history (capped); on any failure the history is
// left untouched and a sentinel error comes back for the router to voice.
func (b *Brain) Reply(ctx context.Context, sess *session.Session, utterance string) (string, error) {
	backend, ok := b.backends[sess.Backend]
	if !ok || !backend.Configured() {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, sess.Backend)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	reply, err := backend.Complete(ctx, b.persona, sess.Recent(SentWindow), utterance)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNetwork, sess.Backend, err)
	}

	sess.AppendExchange(utterance, reply)
	return reply, nil
}
