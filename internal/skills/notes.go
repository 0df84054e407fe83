package skills

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

// categorize picks a note category from keyword cues in the content.
func categorize(content string) string {
	q := strings.ToLower(content)
	switch {
	case strings.Contains(q, "meeting") || strings.Contains(q, "work") || strings.Contains(q, "project"):
		return "work"
	case strings.Contains(q, "buy") || strings.Contains(q, "shopping") || strings.Contains(q, "groceries"):
		return "shopping"
	case strings.Contains(q, "idea") || strings.Contains(q, "thought"):
		return "ideas"
	case strings.Contains(q, "call") || strings.Contains(q, "email") || strings.Contains(q, "contact"):
		return "contacts"
	default:
		return "general"
	}
}

func noteTitle(content string) string {
	words := strings.Fields(content)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

func handleStoreNote(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	text := strings.TrimSpace(m.Param("text"))
	if text == "" {
		return []string{fmt.Sprintf("What would you like me to note down, %s?", col.hon())}, nil
	}

	now := col.now()
	note := store.Note{
		ID:        fmt.Sprintf("note-%d", now.UnixNano()),
		Title:     noteTitle(text),
		Content:   text,
		Category:  categorize(text),
		Timestamp: now.Format(time.RFC3339),
	}
	err := col.Store.Update(func(doc *store.Document) error {
		doc.Notes = append(doc.Notes, note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store note: %w", err)
	}
	return []string{fmt.Sprintf("Noted, %s. I've filed that under %s.", col.hon(), note.Category)}, nil
}

func handleSearchNotes(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	query := strings.ToLower(strings.TrimSpace(m.Param("query")))
	if query == "" {
		return []string{fmt.Sprintf("What should I search your notes for, %s?", col.hon())}, nil
	}

	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	var hits []store.Note
	for _, n := range doc.Notes {
		if strings.Contains(strings.ToLower(n.Content), query) ||
			strings.Contains(strings.ToLower(n.Title), query) ||
			strings.EqualFold(n.Category, query) {
			hits = append(hits, n)
		}
	}
	if len(hits) == 0 {
		return []string{fmt.Sprintf("No notes matching %s, %s.", query, col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("I found %d matching notes, %s.", len(hits), col.hon())}
	if len(hits) > 5 {
		hits = hits[len(hits)-5:]
	}
	for _, n := range hits {
		lines = append(lines, fmt.Sprintf("%s: %s", n.Category, n.Content))
	}
	return lines, nil
}

func handleNoteCategories(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("note categories: %w", err)
	}
	if len(doc.Notes) == 0 {
		return []string{fmt.Sprintf("You have no notes yet, %s.", col.hon())}, nil
	}

	counts := map[string]int{}
	for _, n := range doc.Notes {
		counts[n.Category]++
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	lines := []string{fmt.Sprintf("Your notes fall into %d categories, %s.", len(cats), col.hon())}
	for _, c := range cats {
		lines = append(lines, fmt.Sprintf("%s, %d notes.", c, counts[c]))
	}
	return lines, nil
}
