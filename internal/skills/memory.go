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

func handleRecallConversations(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("recall conversations: %w", err)
	}
	if len(doc.Conversations) == 0 {
		return []string{fmt.Sprintf("We have no logged conversations yet, %s.", col.hon())}, nil
	}

	recent := doc.Conversations
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	lines := []string{fmt.Sprintf("Here's what we discussed recently, %s.", col.hon())}
	for _, c := range recent {
		lines = append(lines, fmt.Sprintf("You said %q and I replied %q.", c.User, c.Assistant))
	}
	return lines, nil
}

func handleRecallTopics(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("recall topics: %w", err)
	}
	if len(doc.Memory.UserTopics) == 0 {
		return []string{fmt.Sprintf("You haven't asked me to remember anything yet, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("I remember these topics, %s: %s.",
		col.hon(), strings.Join(doc.Memory.UserTopics, ", "))}, nil
}

func handleRememberTopic(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	topic := strings.TrimSpace(m.Param("topic"))
	if topic == "" {
		return []string{fmt.Sprintf("What should I remember, %s?", col.hon())}, nil
	}

	err := col.Store.Update(func(doc *store.Document) error {
		for _, t := range doc.Memory.UserTopics {
			if strings.EqualFold(t, topic) {
				return nil
			}
		}
		doc.Memory.UserTopics = append(doc.Memory.UserTopics, topic)
		doc.Memory.LastActiveTime = col.now().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remember topic: %w", err)
	}
	return []string{fmt.Sprintf("Committed to memory, %s.", col.hon())}, nil
}

func handleSetFocus(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	focus := strings.TrimSpace(m.Param("focus"))
	if focus == "" {
		return []string{fmt.Sprintf("What is today's focus, %s?", col.hon())}, nil
	}

	err := col.Store.Update(func(doc *store.Document) error {
		doc.Memory.DailyFocus = focus
		doc.Memory.LastActiveTime = col.now().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set focus: %w", err)
	}
	return []string{fmt.Sprintf("Focus for today set to %s, %s. I'll keep you on track.", focus, col.hon())}, nil
}

func handleProgress(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("progress summary: %w", err)
	}

	var done, pending int
	for _, t := range doc.Tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	today := col.now().Format(dayKey)
	var habitsDone, habitsTotal int
	for _, h := range doc.Habits {
		habitsTotal++
		if h.LastDone == today {
			habitsDone++
		}
	}

	lines := []string{fmt.Sprintf("Here's how you're doing, %s.", col.hon()),
		fmt.Sprintf("Tasks: %d completed, %d pending.", done, pending)}
	if habitsTotal > 0 {
		lines = append(lines, fmt.Sprintf("Habits: %d of %d done today.", habitsDone, habitsTotal))
	}
	if doc.Memory.DailyFocus != "" {
		lines = append(lines, fmt.Sprintf("Today's focus remains %s.", doc.Memory.DailyFocus))
	}
	return lines, nil
}
