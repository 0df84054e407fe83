package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

type fakeBackend struct {
	reply      string
	err        error
	configured bool
	calls      int
}

func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) Complete(context.Context, string, []session.Entry, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type silentSpeaker struct{ spoken [][]string }

func (s *silentSpeaker) Say(_ context.Context, lines ...string) { s.spoken = append(s.spoken, lines) }
func (s *silentSpeaker) Interrupt()                             {}

type scriptedListener struct{ texts []string }

func (l *scriptedListener) Listen(context.Context) (string, error) {
	if len(l.texts) == 0 {
		return "", nil
	}
	t := l.texts[0]
	l.texts = l.texts[1:]
	return t, nil
}

func newTestAssistant(t *testing.T, backend *fakeBackend) (*Assistant, *skills.Collaborators) {
	t.Helper()

	cfg := &config.Config{
		WakeWord:         "jarvis",
		Honorific:        "Sir",
		PreferredAIModel: "gpt",
	}
	col := &skills.Collaborators{
		Cfg:   cfg,
		Store: store.New(filepath.Join(t.TempDir(), "data.json")),
	}
	b := brain.New(config.Keys{}, config.ModelConfig{}, cfg.Honorific, nil).
		WithBackend(session.BackendGPT, backend)

	return New(cfg, col, b, &silentSpeaker{}, &scriptedListener{}), col
}

func TestEmptyUtteranceIsNoOp(t *testing.T) {
	backend := &fakeBackend{configured: true, reply: "hi"}
	a, _ := newTestAssistant(t, backend)

	lines := a.HandleUtterance(context.Background(), "   ")
	assert.Nil(t, lines)
	assert.Equal(t, StateDormant, a.State())
	assert.Zero(t, backend.calls)
}

func TestGreetingOutranksCommand(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true})

	lines := a.HandleUtterance(context.Background(), "hey, open youtube")
	require.NotEmpty(t, lines)
	assert.NotContains(t, lines[0], "Opening")
}

func TestNoteClarificationFlow(t *testing.T) {
	a, col := newTestAssistant(t, &fakeBackend{configured: true})
	ctx := context.Background()

	lines := a.HandleUtterance(ctx, "jarvis take a note")
	require.Len(t, lines, 1)
	assert.Equal(t, "What would you like me to note down?", lines[0])

	lines = a.HandleUtterance(ctx, "buy milk")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Noted")

	doc, err := col.Store.Load()
	require.NoError(t, err)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, "buy milk", doc.Notes[0].Content)
	assert.NotEmpty(t, doc.Notes[0].Timestamp)
}

func TestClarificationGivesUpAfterThreeAttempts(t *testing.T) {
	a, col := newTestAssistant(t, &fakeBackend{configured: true})
	ctx := context.Background()

	lines := a.HandleUtterance(ctx, "schedule for today")
	require.NotEmpty(t, lines)
	assert.Equal(t, "What would you like to schedule?", lines[0])

	// Filler-only answers never yield plan items.
	a.HandleUtterance(ctx, "um")
	a.HandleUtterance(ctx, "uh")
	lines = a.HandleUtterance(ctx, "so")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "come back to that later")

	doc, err := col.Store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Schedule)
}

func TestSleepAndShutdownCommands(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true})
	ctx := context.Background()

	lines := a.HandleUtterance(ctx, "go to sleep")
	require.NotEmpty(t, lines)
	assert.Equal(t, StateAsleep, a.State())

	lines = a.HandleUtterance(ctx, "go offline")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Goodbye")
	assert.Equal(t, StateTerminated, a.State())
}

func TestBackendSwitchKeepsHistory(t *testing.T) {
	backend := &fakeBackend{configured: true, reply: "the answer"}
	a, _ := newTestAssistant(t, backend)
	ctx := context.Background()

	a.HandleUtterance(ctx, "tell me something interesting")
	require.Equal(t, 1, backend.calls)

	lines := a.HandleUtterance(ctx, "change ai model to gemini")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "gemini")
	assert.Equal(t, session.BackendGemini, a.Backend())

	// History from the old backend is still in the session.
	a.mu.Lock()
	defer a.mu.Unlock()
	require.Len(t, a.sess.History, 2)
	assert.Equal(t, "tell me something interesting", a.sess.History[0].Content)
}

func TestBackendSwitchRejectsUnknown(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true})

	lines := a.HandleUtterance(context.Background(), "change ai model to claude")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "don't recognize")
	assert.Equal(t, session.BackendGPT, a.Backend())
}

func TestFallbackFailureLeavesHistoryUnchanged(t *testing.T) {
	backend := &fakeBackend{configured: true, err: errors.New("dial timeout")}
	a, _ := newTestAssistant(t, backend)

	lines := a.HandleUtterance(context.Background(), "tell me a story")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "network issue")

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.Empty(t, a.sess.History)
}

func TestFallbackUnconfiguredBackend(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: false})

	lines := a.HandleUtterance(context.Background(), "tell me a story")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "not configured")
}

func TestFallbackLogsConversation(t *testing.T) {
	backend := &fakeBackend{configured: true, reply: "a wise reply"}
	a, col := newTestAssistant(t, backend)

	a.HandleUtterance(context.Background(), "what do you think about rain")

	doc, err := col.Store.Load()
	require.NoError(t, err)
	require.Len(t, doc.Conversations, 1)
	assert.Equal(t, "what do you think about rain", doc.Conversations[0].User)
	assert.Equal(t, "a wise reply", doc.Conversations[0].Assistant)
	assert.Equal(t, 1, doc.Personality.Interactions)
}

func TestMuteSuppressionAndIdempotence(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true})
	ctx := context.Background()

	require.False(t, a.Muted())
	a.HandleUtterance(ctx, "mute")
	assert.True(t, a.Muted())
	a.HandleUtterance(ctx, "mute yourself")
	assert.True(t, a.Muted())

	a.HandleUtterance(ctx, "unmute")
	assert.False(t, a.Muted())
}

func TestRunWakeGreetsOnce(t *testing.T) {
	backend := &fakeBackend{configured: true, reply: "ok"}
	a, _ := newTestAssistant(t, backend)
	speaker := &silentSpeaker{}
	a.speaker = speaker
	a.listener = &scriptedListener{texts: []string{
		"some background chatter",
		"jarvis",
		"go offline",
	}}

	err := a.Run(context.Background())
	require.NoError(t, err)

	// One greeting on wake, one farewell; the chatter before the wake word
	// produces nothing.
	require.Len(t, speaker.spoken, 2)
	assert.NotEmpty(t, speaker.spoken[0])
	assert.Contains(t, speaker.spoken[1][0], "Goodbye")
}

func TestRunWakeWithInlineCommand(t *testing.T) {
	backend := &fakeBackend{configured: true, reply: "ok"}
	a, _ := newTestAssistant(t, backend)
	speaker := &silentSpeaker{}
	a.speaker = speaker
	a.listener = &scriptedListener{texts: []string{
		"jarvis what time is it",
		"go offline",
	}}

	err := a.Run(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(speaker.spoken), 2)
	assert.Contains(t, speaker.spoken[0][0], "The current time is")
}

func TestRunPlaysCueOnEveryWake(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true, reply: "ok"})
	a.speaker = &silentSpeaker{}
	a.listener = &scriptedListener{texts: []string{
		"jarvis",
		"go to sleep",
		"jarvis",
		"go offline",
	}}

	var cues int
	a.SetWakeCue(func() { cues++ })

	err := a.Run(context.Background())
	require.NoError(t, err)

	// Once out of dormant, once out of asleep.
	assert.Equal(t, 2, cues)
}

func TestRunBacksOffAfterIgnoredCapture(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true, reply: "ok"})
	a.speaker = &silentSpeaker{}
	a.listener = &scriptedListener{texts: []string{
		"unrelated background noise",
		"jarvis go offline",
	}}

	start := time.Now()
	err := a.Run(context.Background())
	require.NoError(t, err)

	// The ignored dormant capture pauses the loop before the next listen.
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestRunSleepThenWake(t *testing.T) {
	a, _ := newTestAssistant(t, &fakeBackend{configured: true, reply: "ok"})
	speaker := &silentSpeaker{}
	a.speaker = speaker
	a.listener = &scriptedListener{texts: []string{
		"jarvis",
		"go to sleep",
		"this should be ignored",
		"jarvis",
		"go offline",
	}}

	err := a.Run(context.Background())
	require.NoError(t, err)

	var sawYes bool
	for _, lines := range speaker.spoken {
		for _, l := range lines {
			if l == "Yes, Sir." {
				sawYes = true
			}
		}
	}
	assert.True(t, sawYes, "waking from sleep should answer with a short acknowledgement")
}
