package skills

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

func handlePromptsOn(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Sched == nil {
		return []string{col.NotConfigured("reminders")}, nil
	}
	col.Sched.SetEnabled(true)
	return []string{fmt.Sprintf("Time prompts enabled, %s.", col.hon())}, nil
}

func handlePromptsOff(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Sched == nil {
		return []string{col.NotConfigured("reminders")}, nil
	}
	col.Sched.SetEnabled(false)
	return []string{fmt.Sprintf("Time prompts disabled, %s.", col.hon())}, nil
}

func handlePromptCooldown(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Sched == nil {
		return []string{col.NotConfigured("reminders")}, nil
	}
	minutes, err := strconv.Atoi(m.Param("minutes"))
	if err != nil || minutes <= 0 {
		return []string{fmt.Sprintf("How many minutes should the cooldown be, %s?", col.hon())}, nil
	}
	col.Sched.SetCooldown(time.Duration(minutes) * time.Minute)
	return []string{fmt.Sprintf("Notification cooldown set to %d minutes, %s.", minutes, col.hon())}, nil
}

func handleListPrompts(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Sched == nil {
		return []string{col.NotConfigured("reminders")}, nil
	}
	entries := col.Sched.List()
	if len(entries) == 0 {
		return []string{fmt.Sprintf("There are no custom prompts registered, %s.", col.hon())}, nil
	}

	lines := []string{fmt.Sprintf("You have %d custom prompts, %s.", len(entries), col.hon())}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s, triggered by %s: %s", e[0], e[1], e[2]))
	}
	return lines, nil
}
