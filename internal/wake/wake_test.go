package wake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectExact(t *testing.T) {
	d := NewDetector("jarvis")

	ok, rest := d.Detect("jarvis what time is it")
	require.True(t, ok)
	assert.Equal(t, "what time is it", rest)
}

func TestDetectMidSentence(t *testing.T) {
	d := NewDetector("jarvis")

	ok, rest := d.Detect("hey jarvis open youtube")
	require.True(t, ok)
	assert.Equal(t, "hey open youtube", rest)
}

func TestDetectKnownVariant(t *testing.T) {
	d := NewDetector("jarvis")

	ok, _ := d.Detect("jarves are you there")
	assert.True(t, ok)
}

func TestDetectEditDistance(t *testing.T) {
	d := NewDetector("jarvis")

	// Two slips allowed for a six-letter wake word.
	ok, _ := d.Detect("jarvix hello")
	assert.True(t, ok)
}

func TestDetectRejectsUnrelated(t *testing.T) {
	d := NewDetector("jarvis")

	ok, _ := d.Detect("the weather is nice today")
	assert.False(t, ok)
}

func TestDetectEmpty(t *testing.T) {
	d := NewDetector("jarvis")

	ok, rest := d.Detect("   ")
	assert.False(t, ok)
	assert.Empty(t, rest)
}

func TestDetectStripsPunctuation(t *testing.T) {
	d := NewDetector("jarvis")

	ok, rest := d.Detect("Jarvis, take a note!")
	require.True(t, ok)
	assert.Equal(t, "take a note", rest)
}

func TestCustomWakeWord(t *testing.T) {
	d := NewDetector("computer")

	ok, rest := d.Detect("computer status report")
	require.True(t, ok)
	assert.Equal(t, "status report", rest)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("jarvis", "jarvis"))
	assert.Equal(t, 1, levenshtein("jarvis", "jarves"))
	assert.Equal(t, 6, levenshtein("", "jarvis"))
}
