package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCaps = Capabilities{AppManager: true, Diagnostics: true, Weather: true, Messenger: true}

func TestClassifyGreetingOutranksOpen(t *testing.T) {
	m, ok := Classify(Normalize("hey, open youtube"), allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentGreeting, m.Intent)
}

func TestClassifyOpenSite(t *testing.T) {
	m, ok := Classify(Normalize("open youtube"), allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentOpenSite, m.Intent)
	assert.Equal(t, "youtube", m.Param("target"))
}

func TestClassifyUnmuteBeforeMute(t *testing.T) {
	m, ok := Classify("unmute yourself", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentUnmute, m.Intent)
}

func TestClassifySearchNotesNotWebSearch(t *testing.T) {
	m, ok := Classify("search notes for groceries", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentSearchNotes, m.Intent)
	assert.Equal(t, "groceries", m.Param("query"))
}

func TestClassifyGatedIntentFallsThrough(t *testing.T) {
	// Without a messenger the send-message rule must not fire; the utterance
	// becomes a chat fallback.
	_, ok := Classify("send message to alice", Capabilities{})
	assert.False(t, ok)

	m, ok := Classify("send message to alice", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentSendMessage, m.Intent)
	assert.Equal(t, "alice", m.Param("recipient"))
}

func TestClassifyEmptyIsNoMatch(t *testing.T) {
	_, ok := Classify("", allCaps)
	assert.False(t, ok)
}

func TestClassifyWholeWordTime(t *testing.T) {
	_, ok := Classify("sometimes i wonder", allCaps)
	assert.False(t, ok)

	m, ok := Classify("what time is it", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentTime, m.Intent)
}

func TestClassifyYouTubeQuery(t *testing.T) {
	m, ok := Classify("play um lofi beats on youtube", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentPlayYouTube, m.Intent)
	assert.Equal(t, "lofi beats", m.Param("query"))
}

func TestClassifyTaskPriority(t *testing.T) {
	m, ok := Classify("add task to water the plants with high priority", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentAddTask, m.Intent)
	assert.Equal(t, "water the plants", m.Param("task"))
	assert.Equal(t, "high", m.Param("priority"))
}

func TestClassifyScheduleOffsets(t *testing.T) {
	m, ok := Classify("review tomorrow's plans", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentReviewSchedule, m.Intent)
	assert.Equal(t, "1", m.Param("offset"))

	m, ok = Classify("what was yesterday", allCaps)
	require.True(t, ok)
	assert.Equal(t, IntentReviewSchedule, m.Intent)
	assert.Equal(t, "-1", m.Param("offset"))
}

func TestSplitItems(t *testing.T) {
	items := SplitItems("gym and then standup, write the report after that call mom")
	assert.Equal(t, []string{"gym", "standup", "write the report", "call mom"}, items)
}

func TestSplitItemsDropsFillersAndFragments(t *testing.T) {
	items := SplitItems("uh, go running and so and at")
	assert.NotContains(t, items, "uh")
	assert.NotContains(t, items, "so")
	assert.NotContains(t, items, "at")
	assert.Contains(t, items, "go running")
}

func TestNextMissingStoreNote(t *testing.T) {
	m, ok := Classify("take a note", allCaps)
	require.True(t, ok)
	require.Equal(t, IntentStoreNote, m.Intent)

	param, question, missing := m.NextMissing()
	require.True(t, missing)
	assert.Equal(t, "text", param)
	assert.Equal(t, "What would you like me to note down?", question)

	m.Fill(param, "buy milk")
	assert.False(t, m.NeedsClarification())
	assert.Equal(t, "buy milk", m.Param("text"))
}

func TestNextMissingSendMessageTwoStage(t *testing.T) {
	m := Match{Intent: IntentSendMessage}

	param, _, missing := m.NextMissing()
	require.True(t, missing)
	assert.Equal(t, "recipient", param)

	m.Fill("recipient", "bob")
	param, question, missing := m.NextMissing()
	require.True(t, missing)
	assert.Equal(t, "message", param)
	assert.Contains(t, question, "bob")
}

func TestFillPlansSplits(t *testing.T) {
	m := Match{Intent: IntentAddSchedule}
	m.Fill("plans", "gym then groceries then dinner with sam")
	assert.Equal(t, []string{"gym", "groceries", "dinner with sam"}, m.Items)
}

func TestControlPhrases(t *testing.T) {
	assert.True(t, IsSleepCommand("please go to sleep now"))
	assert.False(t, IsSleepCommand("sleep statistics"))

	assert.True(t, IsShutdownCommand("go offline"))
	assert.True(t, IsShutdownCommand("bye"))
	assert.False(t, IsShutdownCommand("buy milk"))

	name, ok := BackendSwitch("change ai model to gemini")
	require.True(t, ok)
	assert.Equal(t, "gemini", name)
}
