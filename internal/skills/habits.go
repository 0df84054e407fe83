package skills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

const dayKey = "2006-01-02"

func findHabit(habits []store.Habit, name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, h := range habits {
		if strings.ToLower(h.Name) == name {
			return i
		}
	}
	return -1
}

func handleAddHabit(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	name := strings.TrimSpace(m.Param("habit"))
	if name == "" {
		return []string{fmt.Sprintf("What habit should I track, %s?", col.hon())}, nil
	}

	duplicate := false
	err := col.Store.Update(func(doc *store.Document) error {
		if findHabit(doc.Habits, name) >= 0 {
			duplicate = true
			return nil
		}
		doc.Habits = append(doc.Habits, store.Habit{
			Name:      name,
			Streak:    0,
			CreatedAt: col.now().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add habit: %w", err)
	}
	if duplicate {
		return []string{fmt.Sprintf("The habit %s already exists, %s.", name, col.hon())}, nil
	}
	return []string{fmt.Sprintf("I'll track %s for you, %s. Streak starts at zero.", name, col.hon())}, nil
}

func handleRemoveHabit(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	name := m.Param("habit")
	removed := false
	err := col.Store.Update(func(doc *store.Document) error {
		i := findHabit(doc.Habits, name)
		if i < 0 {
			return nil
		}
		doc.Habits = append(doc.Habits[:i], doc.Habits[i+1:]...)
		removed = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove habit: %w", err)
	}
	if !removed {
		return []string{fmt.Sprintf("I don't have a habit called %s, %s.", name, col.hon())}, nil
	}
	return []string{fmt.Sprintf("Habit %s removed, %s.", name, col.hon())}, nil
}

func handleResetHabit(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	name := m.Param("habit")
	found := false
	err := col.Store.Update(func(doc *store.Document) error {
		i := findHabit(doc.Habits, name)
		if i < 0 {
			return nil
		}
		doc.Habits[i].Streak = 0
		doc.Habits[i].LastDone = ""
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reset habit: %w", err)
	}
	if !found {
		return []string{fmt.Sprintf("I don't have a habit called %s, %s.", name, col.hon())}, nil
	}
	return []string{fmt.Sprintf("Streak for %s reset to zero, %s.", name, col.hon())}, nil
}

func handleMarkHabit(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	name := m.Param("habit")
	today := col.now().Format(dayKey)
	yesterday := col.now().AddDate(0, 0, -1).Format(dayKey)

	var streak int
	state := "missing"
	err := col.Store.Update(func(doc *store.Document) error {
		i := findHabit(doc.Habits, name)
		if i < 0 {
			return nil
		}
		h := &doc.Habits[i]
		if h.LastDone == today {
			state = "already"
			return nil
		}
		// A gap of more than one day breaks the streak.
		if h.LastDone == yesterday {
			h.Streak++
		} else {
			h.Streak = 1
		}
		h.LastDone = today
		streak = h.Streak
		state = "done"
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark habit: %w", err)
	}

	switch state {
	case "already":
		return []string{fmt.Sprintf("%s is already marked done today, %s.", name, col.hon())}, nil
	case "done":
		return []string{fmt.Sprintf("Excellent, %s. %s is done; your streak is now %d days.", col.hon(), name, streak)}, nil
	default:
		return []string{fmt.Sprintf("I don't have a habit called %s, %s.", name, col.hon())}, nil
	}
}

func handleListHabits(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	if len(doc.Habits) == 0 {
		return []string{fmt.Sprintf("You are not tracking any habits yet, %s.", col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("You are tracking %d habits, %s.", len(doc.Habits), col.hon())}
	for _, h := range doc.Habits {
		lines = append(lines, fmt.Sprintf("%s, streak of %d days.", h.Name, h.Streak))
	}
	return lines, nil
}

func handlePendingHabits(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("pending habits: %w", err)
	}

	today := col.now().Format(dayKey)
	var pending []string
	for _, h := range doc.Habits {
		if h.LastDone != today {
			pending = append(pending, h.Name)
		}
	}
	if len(pending) == 0 {
		return []string{fmt.Sprintf("All habits are done for today, %s. Splendid discipline.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("Still pending today, %s: %s.", col.hon(), strings.Join(pending, ", "))}, nil
}
