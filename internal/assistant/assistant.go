// Package assistant owns the outer state machine and the command router. It
// ties wake detection, classification, skill dispatch and the chat fallback
// into the single loop that drives the daemon.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/wake"
)

// State is the assistant's lifecycle position.
type State int

const (
	StateDormant State = iota
	StateActive
	StateAsleep
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateDormant:
		return "dormant"
	case StateActive:
		return "active"
	case StateAsleep:
		return "asleep"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Speaker renders reply sentences.
type Speaker interface {
	Say(ctx context.Context, lines ...string)
	Interrupt()
}

// Listener captures and transcribes one utterance. An empty string with a nil
// error means nothing intelligible was heard.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// maxClarifyAttempts bounds the re-prompt loop for a missing parameter.
const maxClarifyAttempts = 3

// autoUnmute is how long a mute lasts before hearing returns automatically.
const autoUnmute = 30 * time.Second

// Assistant is the daemon core. All session access is serialized by mu, so the
// voice loop, the IPC server and the web endpoint can submit utterances
// concurrently.
type Assistant struct {
	cfg      *config.Config
	detector *wake.Detector
	table    skills.Table
	col      *skills.Collaborators
	brain    *brain.Brain

	speaker  Speaker
	listener Listener
	wakeCue  func()

	mu    sync.Mutex
	sess  *session.Session
	state State

	pending      *nlu.Match
	pendingParam string
	pendingTries int

	unmuteTimer   *time.Timer
	lastInput     time.Time
	lastPlanNudge time.Time
}

func New(cfg *config.Config, col *skills.Collaborators, b *brain.Brain, speaker Speaker, listener Listener) *Assistant {
	backend, ok := session.ParseBackend(cfg.PreferredAIModel)
	if !ok {
		backend = session.BackendOpenRouter
	}
	return &Assistant{
		cfg:      cfg,
		detector: wake.NewDetector(cfg.WakeWord),
		table:    skills.NewTable(),
		col:      col,
		brain:    b,
		speaker:  speaker,
		listener: listener,
		sess:     session.New(backend),
		state:    StateDormant,

		lastPlanNudge: time.Now(),
	}
}

// State reports the current lifecycle state.
func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Backend reports the session's active chat backend.
func (a *Assistant) Backend() session.Backend {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess.Backend
}

// Muted reports whether speech output is currently suppressed.
func (a *Assistant) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess.Muted
}

// Wake forces the active state, used by the IPC trigger.
func (a *Assistant) Wake() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateDormant || a.state == StateAsleep {
		a.state = StateActive
		a.lastInput = time.Now()
	}
}

// Interrupt cuts off the current spoken reply at the next sentence boundary.
func (a *Assistant) Interrupt() {
	a.speaker.Interrupt()
}

// SetWakeCue installs the sound played when the wake word brings the
// assistant out of dormant or asleep.
func (a *Assistant) SetWakeCue(f func()) {
	a.wakeCue = f
}

func (a *Assistant) playWakeCue() {
	if a.wakeCue != nil {
		a.wakeCue()
	}
}

// HandleUtterance routes one utterance and returns the reply lines. It is the
// single entry point shared by the voice loop, the IPC server and the web
// endpoint. An empty utterance is a no-op: no state change, no reply.
func (a *Assistant) HandleUtterance(ctx context.Context, raw string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle(ctx, raw)
}

func (a *Assistant) handle(ctx context.Context, raw string) []string {
	q := nlu.Normalize(raw)
	if q == "" {
		return nil
	}
	a.lastInput = time.Now()

	if a.pending != nil {
		return a.continueClarification(ctx, raw, q)
	}

	// Control phrases outrank the rule table.
	switch {
	case nlu.IsShutdownCommand(q):
		a.state = StateTerminated
		return []string{fmt.Sprintf("Going offline. Goodbye, %s.", a.hon())}
	case nlu.IsSleepCommand(q):
		a.state = StateAsleep
		return []string{fmt.Sprintf("Very well, %s. Entering rest mode. Call my name if you need me.", a.hon())}
	}
	if name, ok := nlu.BackendSwitch(q); ok {
		return a.switchBackend(name)
	}

	m, ok := nlu.Classify(q, a.col.Capabilities())
	if !ok {
		return a.fallback(ctx, raw)
	}
	if param, question, missing := m.NextMissing(); missing {
		a.pending = &m
		a.pendingParam = param
		a.pendingTries = 1
		return []string{question}
	}
	return a.dispatch(ctx, &m)
}

// continueClarification treats the utterance as the answer to the outstanding
// question and either completes the match or asks again, up to the attempt cap.
func (a *Assistant) continueClarification(ctx context.Context, raw, q string) []string {
	m := a.pending

	// Answering with a fresh control phrase abandons the clarification.
	if nlu.IsShutdownCommand(q) || nlu.IsSleepCommand(q) {
		a.clearPending()
		return a.handle(ctx, raw)
	}

	m.Fill(a.pendingParam, raw)
	param, question, missing := m.NextMissing()
	if !missing {
		a.clearPending()
		return a.dispatch(ctx, m)
	}

	a.pendingTries++
	if a.pendingTries > maxClarifyAttempts {
		a.clearPending()
		return []string{fmt.Sprintf("My apologies, %s. Let's come back to that later.", a.hon())}
	}
	a.pendingParam = param
	return []string{question}
}

func (a *Assistant) clearPending() {
	a.pending = nil
	a.pendingParam = ""
	a.pendingTries = 0
}

func (a *Assistant) dispatch(ctx context.Context, m *nlu.Match) []string {
	mutedBefore := a.sess.Muted
	lines := a.table.Dispatch(ctx, a.col, m, a.sess)
	a.syncMuteTimer(mutedBefore)
	return lines
}

// fallback forwards an unmatched utterance to the chat backend and logs the
// exchange only after a confirmed reply.
func (a *Assistant) fallback(ctx context.Context, utterance string) []string {
	reply, err := a.brain.Reply(ctx, a.sess, utterance)
	if err != nil {
		switch {
		case errors.Is(err, brain.ErrNotConfigured):
			slog.Warn("fallback backend unconfigured", "backend", a.sess.Backend)
			return []string{fmt.Sprintf("The %s backend is not configured, %s.", a.sess.Backend, a.hon())}
		default:
			slog.Warn("fallback failed", "backend", a.sess.Backend, "err", err)
			return []string{a.col.NetworkIssue()}
		}
	}

	if err := a.col.Store.Update(func(doc *store.Document) error {
		doc.Conversations = append(doc.Conversations, store.ConversationEntry{
			Timestamp: time.Now().Format(time.RFC3339),
			User:      utterance,
			Assistant: reply,
		})
		doc.Personality.Interactions++
		doc.Personality.LastUpdated = time.Now().Format(time.RFC3339)
		return nil
	}); err != nil {
		slog.Warn("conversation log failed", "err", err)
	}
	return []string{reply}
}

func (a *Assistant) switchBackend(name string) []string {
	backend, ok := session.ParseBackend(strings.TrimSpace(name))
	if !ok {
		return []string{fmt.Sprintf("I don't recognize that model, %s. I know gpt, gemini, openrouter and mistral.", a.hon())}
	}
	a.sess.Backend = backend
	if !a.brain.Configured(backend) {
		return []string{fmt.Sprintf("Switched to %s, %s, though it has no credentials configured.", backend, a.hon())}
	}
	// History survives the switch; the conversation continues on the new backend.
	return []string{fmt.Sprintf("Switched to %s, %s.", backend, a.hon())}
}

// syncMuteTimer arms the auto-unmute countdown when a handler muted the
// session and cancels it when one unmuted it.
func (a *Assistant) syncMuteTimer(mutedBefore bool) {
	switch {
	case a.sess.Muted && !mutedBefore:
		if a.unmuteTimer != nil {
			a.unmuteTimer.Stop()
		}
		a.unmuteTimer = time.AfterFunc(autoUnmute, func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.sess.Muted = false
			a.unmuteTimer = nil
			slog.Info("auto-unmute elapsed")
		})
	case !a.sess.Muted && a.unmuteTimer != nil:
		a.unmuteTimer.Stop()
		a.unmuteTimer = nil
	}
}

func (a *Assistant) hon() string {
	if a.cfg.Honorific != "" {
		return a.cfg.Honorific
	}
	return "Sir"
}
