package skills

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

func scheduleDay(col *Collaborators, m *nlu.Match) (time.Time, string) {
	offset, _ := strconv.Atoi(m.Param("offset"))
	day := col.now().AddDate(0, 0, offset)
	switch offset {
	case -1:
		return day, "yesterday"
	case 1:
		return day, "tomorrow"
	default:
		return day, "today"
	}
}

func handleAddSchedule(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	day, label := scheduleDay(col, m)
	if len(m.Items) == 0 {
		return []string{fmt.Sprintf("What are your plans for %s, %s?", label, col.hon())}, nil
	}

	err := col.Store.Update(func(doc *store.Document) error {
		doc.Schedule[day.Format(dayKey)] = store.DaySchedule{
			DayName:   day.Format("Monday"),
			Plans:     m.Items,
			CreatedAt: col.now().Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add schedule: %w", err)
	}
	return []string{fmt.Sprintf("I've recorded %d plans for %s, %s.", len(m.Items), label, col.hon())}, nil
}

func handleReviewSchedule(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	day, label := scheduleDay(col, m)

	doc, err := col.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("review schedule: %w", err)
	}
	ds, ok := doc.Schedule[day.Format(dayKey)]
	if !ok || len(ds.Plans) == 0 {
		return []string{fmt.Sprintf("There is nothing scheduled for %s, %s.", label, col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("Your plans for %s, %s:", label, col.hon())}
	for i, p := range ds.Plans {
		lines = append(lines, fmt.Sprintf("%d. %s.", i+1, p))
	}

	// Mark reviewed so the background nudge doesn't repeat it.
	if err := col.Store.Update(func(doc *store.Document) error {
		if d, ok := doc.Schedule[day.Format(dayKey)]; ok {
			d.Reviewed = true
			doc.Schedule[day.Format(dayKey)] = d
		}
		return nil
	}); err != nil {
		slog.Warn("mark schedule reviewed failed", "day", day.Format(dayKey), "err", err)
	}
	return lines, nil
}

func handleModifySchedule(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	day, label := scheduleDay(col, m)
	if len(m.Items) == 0 {
		return []string{fmt.Sprintf("What should the new plans for %s be, %s?", label, col.hon())}, nil
	}

	err := col.Store.Update(func(doc *store.Document) error {
		ds := doc.Schedule[day.Format(dayKey)]
		ds.DayName = day.Format("Monday")
		ds.Plans = m.Items
		ds.CreatedAt = col.now().Format(time.RFC3339)
		ds.Reviewed = false
		doc.Schedule[day.Format(dayKey)] = ds
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("modify schedule: %w", err)
	}
	return []string{fmt.Sprintf("Schedule for %s replaced with %d plans, %s.", label, len(m.Items), col.hon())}, nil
}

func handleClearSchedule(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	key := col.now().Format(dayKey)
	existed := false
	err := col.Store.Update(func(doc *store.Document) error {
		if _, ok := doc.Schedule[key]; ok {
			existed = true
			delete(doc.Schedule, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clear schedule: %w", err)
	}
	if !existed {
		return []string{fmt.Sprintf("Today's schedule was already empty, %s.", col.hon())}, nil
	}
	return []string{fmt.Sprintf("Today's schedule cleared, %s.", col.hon())}, nil
}

// UpcomingPlans summarizes unreviewed plans for the proactive reminder check.
func UpcomingPlans(col *Collaborators) []string {
	doc, err := col.Store.Load()
	if err != nil {
		return nil
	}
	ds, ok := doc.Schedule[col.now().Format(dayKey)]
	if !ok || ds.Reviewed || len(ds.Plans) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("A reminder, %s. You have %d plans for today: %s.",
		col.hon(), len(ds.Plans), strings.Join(ds.Plans, ", "))}
}
