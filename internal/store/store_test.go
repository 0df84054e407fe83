package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data.json"))
}

func TestLoadMissingFileYieldsEmptyDocument(t *testing.T) {
	s := tempStore(t)

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks)
	assert.NotNil(t, doc.Schedule)
}

func TestLoadCorruptFileYieldsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	doc, err := New(path).Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Notes)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := tempStore(t)

	err := s.Update(func(doc *Document) error {
		doc.Habits = append(doc.Habits, Habit{Name: "meditate", Streak: 3, CreatedAt: "2026-08-30T10:00:00Z"})
		doc.Schedule["2026-08-30"] = DaySchedule{DayName: "Sunday", Plans: []string{"gym", "groceries"}}
		return nil
	})
	require.NoError(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	require.Len(t, doc.Habits, 1)
	assert.Equal(t, "meditate", doc.Habits[0].Name)
	assert.Equal(t, 3, doc.Habits[0].Streak)
	assert.Equal(t, []string{"gym", "groceries"}, doc.Schedule["2026-08-30"].Plans)
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Update(func(doc *Document) error {
		doc.Notes = append(doc.Notes, Note{ID: "n1", Content: "original"})
		return nil
	}))

	err := s.Update(func(doc *Document) error {
		doc.Notes = nil
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, "original", doc.Notes[0].Content)
}

func TestUpdateTrimsConversationLog(t *testing.T) {
	s := tempStore(t)

	err := s.Update(func(doc *Document) error {
		for i := 0; i < ConversationCap+20; i++ {
			doc.Conversations = append(doc.Conversations, ConversationEntry{
				User: fmt.Sprintf("u%d", i), Assistant: fmt.Sprintf("a%d", i),
			})
		}
		return nil
	})
	require.NoError(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	require.Len(t, doc.Conversations, ConversationCap)
	// The newest entries survive the trim.
	assert.Equal(t, fmt.Sprintf("u%d", ConversationCap+19), doc.Conversations[ConversationCap-1].User)
}
