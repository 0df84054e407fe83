package skills

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

func testClock() time.Time {
	return time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
}

func testCollaborators(t *testing.T) *Collaborators {
	t.Helper()
	return &Collaborators{
		Cfg:   &config.Config{Honorific: "Sir"},
		Store: store.New(filepath.Join(t.TempDir(), "data.json")),
		Clock: testClock,
	}
}

func dispatch(t *testing.T, col *Collaborators, m *nlu.Match, sess *session.Session) []string {
	t.Helper()
	return NewTable().Dispatch(context.Background(), col, m, sess)
}

func TestMuteSetsFlag(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	lines := dispatch(t, col, &nlu.Match{Intent: nlu.IntentMute}, sess)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Understood")
	assert.True(t, sess.Muted)

	// Muting twice is idempotent.
	dispatch(t, col, &nlu.Match{Intent: nlu.IntentMute}, sess)
	assert.True(t, sess.Muted)

	dispatch(t, col, &nlu.Match{Intent: nlu.IntentUnmute}, sess)
	assert.False(t, sess.Muted)
}

func TestStoreNotePersists(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	m := &nlu.Match{Intent: nlu.IntentStoreNote}
	m.Fill("text", "buy milk")

	lines := dispatch(t, col, m, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Noted")

	doc, err := col.Store.Load()
	require.NoError(t, err)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, "buy milk", doc.Notes[0].Content)
	assert.Equal(t, "shopping", doc.Notes[0].Category)
	assert.NotEmpty(t, doc.Notes[0].Timestamp)
}

func TestAddHabitDuplicate(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	m := &nlu.Match{Intent: nlu.IntentAddHabit}
	m.Fill("habit", "meditate")
	dispatch(t, col, m, sess)

	doc, _ := col.Store.Load()
	require.Len(t, doc.Habits, 1)
	assert.Equal(t, 0, doc.Habits[0].Streak)
	assert.Empty(t, doc.Habits[0].LastDone)

	lines := dispatch(t, col, m, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "already exists")

	doc, _ = col.Store.Load()
	assert.Len(t, doc.Habits, 1)
}

func TestMarkHabitStreakAndRepeat(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	add := &nlu.Match{Intent: nlu.IntentAddHabit}
	add.Fill("habit", "run")
	dispatch(t, col, add, sess)

	mark := &nlu.Match{Intent: nlu.IntentMarkHabit}
	mark.Fill("habit", "run")
	lines := dispatch(t, col, mark, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "streak is now 1")

	lines = dispatch(t, col, mark, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "already marked done today")

	doc, _ := col.Store.Load()
	require.Len(t, doc.Habits, 1)
	assert.Equal(t, 1, doc.Habits[0].Streak)
}

func TestMarkHabitContinuesStreakFromYesterday(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	yesterday := testClock().AddDate(0, 0, -1).Format("2006-01-02")
	require.NoError(t, col.Store.Update(func(doc *store.Document) error {
		doc.Habits = append(doc.Habits, store.Habit{Name: "run", Streak: 4, LastDone: yesterday})
		return nil
	}))

	mark := &nlu.Match{Intent: nlu.IntentMarkHabit}
	mark.Fill("habit", "run")
	dispatch(t, col, mark, sess)

	doc, _ := col.Store.Load()
	assert.Equal(t, 5, doc.Habits[0].Streak)
}

func TestScheduleAddAndReview(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	add := &nlu.Match{Intent: nlu.IntentAddSchedule}
	add.Fill("offset", "0")
	add.Fill("plans", "gym then groceries and then dinner with sam")
	lines := dispatch(t, col, add, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "3 plans")

	doc, _ := col.Store.Load()
	day := doc.Schedule[testClock().Format("2006-01-02")]
	assert.Equal(t, []string{"gym", "groceries", "dinner with sam"}, day.Plans)

	review := &nlu.Match{Intent: nlu.IntentReviewSchedule}
	review.Fill("offset", "0")
	lines = dispatch(t, col, review, sess)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "gym")

	// A reviewed day is excluded from the proactive nudge.
	doc, _ = col.Store.Load()
	assert.True(t, doc.Schedule[testClock().Format("2006-01-02")].Reviewed)
	assert.Empty(t, UpcomingPlans(col))
}

func TestSendMessageUpdatesLastContact(t *testing.T) {
	col := testCollaborators(t)
	col.Cfg.Contacts = []config.Contact{{Name: "Alice", Phone: "+100"}}
	sent := map[string]string{}
	col.Messenger = messengerFunc(func(c config.Contact, msg string) error {
		sent[c.Name] = msg
		return nil
	})
	sess := session.New(session.BackendGPT)

	m := &nlu.Match{Intent: nlu.IntentSendMessage}
	m.Fill("recipient", "alice")
	m.Fill("message", "running late")
	lines := dispatch(t, col, m, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "Alice")
	assert.Equal(t, "running late", sent["Alice"])
	assert.Equal(t, "Alice", sess.LastContact)
}

func TestSendAnotherWithoutHistory(t *testing.T) {
	col := testCollaborators(t)
	col.Messenger = messengerFunc(func(config.Contact, string) error { return nil })
	sess := session.New(session.BackendGPT)

	m := &nlu.Match{Intent: nlu.IntentSendAnother}
	m.Fill("message", "hello again")
	lines := dispatch(t, col, m, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "have not sent any messages recently")
}

func TestDispatchRollsBackOnError(t *testing.T) {
	col := testCollaborators(t)
	col.Weather = weatherFunc(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})
	sess := session.New(session.BackendGPT)
	sess.LastContact = "alice"

	lines := dispatch(t, col, &nlu.Match{Intent: nlu.IntentWeather}, sess)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "network issue")
	// Session state survives the failed handler untouched.
	assert.Equal(t, "alice", sess.LastContact)
	assert.False(t, sess.Muted)
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	col := testCollaborators(t)
	col.Weather = weatherFunc(func(context.Context, string) (string, error) {
		panic("boom")
	})
	sess := session.New(session.BackendGPT)

	lines := dispatch(t, col, &nlu.Match{Intent: nlu.IntentWeather}, sess)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "apologies")
}

func TestGreetCooldown(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	first := GreetLines(col, sess, false)
	require.NotEmpty(t, first)
	assert.NotContains(t, first[0], "Still here")

	second := GreetLines(col, sess, false)
	require.Len(t, second, 1)
	assert.Equal(t, "Still here, Sir. Always attentive.", second[0])
}

func TestGreetManualIgnoresCooldown(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	GreetLines(col, sess, false)
	lines := GreetLines(col, sess, true)
	require.GreaterOrEqual(t, len(lines), 2)
	assert.NotEqual(t, "Still here, Sir. Always attentive.", lines[0])
}

func TestTaskLifecycle(t *testing.T) {
	col := testCollaborators(t)
	sess := session.New(session.BackendGPT)

	add := &nlu.Match{Intent: nlu.IntentAddTask, Params: map[string]string{
		"task": "water the plants", "priority": "high",
	}}
	dispatch(t, col, add, sess)

	list := dispatch(t, col, &nlu.Match{Intent: nlu.IntentListTasks}, sess)
	require.Len(t, list, 2)
	assert.Contains(t, list[1], "water the plants")
	assert.Contains(t, list[1], "high")

	complete := &nlu.Match{Intent: nlu.IntentCompleteTask, Params: map[string]string{"task": "plants"}}
	lines := dispatch(t, col, complete, sess)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "complete")

	list = dispatch(t, col, &nlu.Match{Intent: nlu.IntentListTasks}, sess)
	require.Len(t, list, 1)
	assert.Contains(t, list[0], "clear")
}

type messengerFunc func(config.Contact, string) error

func (f messengerFunc) Send(c config.Contact, m string) error { return f(c, m) }

type weatherFunc func(context.Context, string) (string, error)

func (f weatherFunc) Current(ctx context.Context, city string) (string, error) { return f(ctx, city) }
