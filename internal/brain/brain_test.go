package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

type fakeCompleter struct {
	reply      string
	err        error
	configured bool

	gotSystem  string
	gotHistory []session.Entry
	gotUser    string
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(_ context.Context, system string, history []session.Entry, user string) (string, error) {
	f.gotSystem = system
	f.gotHistory = append([]session.Entry(nil), history...)
	f.gotUser = user
	return f.reply, f.err
}

func newTestBrain(fake *fakeCompleter) *Brain {
	b := New(config.Keys{}, config.ModelConfig{}, "Sir", nil)
	return b.WithBackend(session.BackendGPT, fake)
}

func TestReplyAppendsHistoryOnSuccess(t *testing.T) {
	fake := &fakeCompleter{reply: "Certainly, Sir.", configured: true}
	b := newTestBrain(fake)
	sess := session.New(session.BackendGPT)

	reply, err := b.Reply(context.Background(), sess, "what is the capital of france")
	require.NoError(t, err)
	assert.Equal(t, "Certainly, Sir.", reply)

	require.Len(t, sess.History, 2)
	assert.Equal(t, "what is the capital of france", sess.History[0].Content)
	assert.Equal(t, "Certainly, Sir.", sess.History[1].Content)
	assert.Contains(t, fake.gotSystem, "Sir")
}

func TestReplyFailureLeavesHistoryUntouched(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("timeout"), configured: true}
	b := newTestBrain(fake)
	sess := session.New(session.BackendGPT)
	sess.AppendExchange("earlier", "reply")

	_, err := b.Reply(context.Background(), sess, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Len(t, sess.History, 2)
}

func TestReplyUnconfiguredBackend(t *testing.T) {
	b := New(config.Keys{}, config.ModelConfig{}, "Sir", nil)
	sess := session.New(session.BackendGPT)

	_, err := b.Reply(context.Background(), sess, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, sess.History)
}

func TestReplySendsTrimmedWindow(t *testing.T) {
	fake := &fakeCompleter{reply: "ok", configured: true}
	b := newTestBrain(fake)
	sess := session.New(session.BackendGPT)
	for i := 0; i < 10; i++ {
		sess.AppendExchange("q", "a")
	}

	_, err := b.Reply(context.Background(), sess, "latest")
	require.NoError(t, err)
	// The session holds HistoryCap entries; only SentWindow travel.
	assert.Len(t, fake.gotHistory, SentWindow)
	assert.Equal(t, "latest", fake.gotUser)
}

func TestHistorySurvivesBackendSwitch(t *testing.T) {
	gpt := &fakeCompleter{reply: "from gpt", configured: true}
	gemini := &fakeCompleter{reply: "from gemini", configured: true}
	b := newTestBrain(gpt).WithBackend(session.BackendGemini, gemini)
	sess := session.New(session.BackendGPT)

	_, err := b.Reply(context.Background(), sess, "first question")
	require.NoError(t, err)

	sess.Backend = session.BackendGemini
	_, err = b.Reply(context.Background(), sess, "second question")
	require.NoError(t, err)

	// The new backend sees the exchange made on the old one.
	require.NotEmpty(t, gemini.gotHistory)
	assert.Equal(t, "first question", gemini.gotHistory[0].Content)
	assert.Len(t, sess.History, 4)
}
