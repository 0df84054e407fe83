package skills

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

// greetCooldown suppresses a second full greeting fired shortly after the
// first (wake followed by "good morning", typically).
const greetCooldown = 3 * time.Minute

var greetingsByPeriod = map[string][]string{
	"morning": {
		"Good morning %s. A fresh start to the day.",
		"Morning %s, ready to conquer the day?",
		"A bright morning to you, %s.",
		"Good morning %s. I've prepped your systems and routines.",
	},
	"afternoon": {
		"Good afternoon %s. Productivity still holding strong, I hope.",
		"Afternoon, %s. Everything's running at optimal efficiency.",
		"A fine afternoon to you, %s.",
		"Good afternoon %s. Your focus remains admirable.",
	},
	"evening": {
		"Good evening %s. The day's almost complete.",
		"Evening, %s. System temperatures nominal; your workload, less so perhaps?",
		"A relaxing evening to you, %s.",
		"Good evening %s. It's a pleasure to assist you once again.",
	},
	"night": {
		"Working late again, %s? Shall I prepare your nightly summary?",
		"It's quite late, %s. Don't forget to rest eventually.",
		"A quiet night, %s. System diagnostics all green.",
		"Still awake, %s? Ever the dedicated one.",
	},
}

func period(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// GreetLines produces the greeting sequence for a wake transition or a spoken
// greeting. Avoids repeating the previous variant and, for automatic
// (non-manual) greetings, collapses to a short acknowledgement inside the
// cooldown window.
func GreetLines(col *Collaborators, sess *session.Session, manual bool) []string {
	now := col.now()
	hon := col.hon()

	if !manual && !sess.LastGreetTime.IsZero() && now.Sub(sess.LastGreetTime) < greetCooldown {
		return []string{fmt.Sprintf("Still here, %s. Always attentive.", hon)}
	}
	sess.LastGreetTime = now

	variants := greetingsByPeriod[period(now.Hour())]
	idx := rand.Intn(len(variants))
	for idx == sess.LastGreetIndex && len(variants) > 1 {
		idx = rand.Intn(len(variants))
	}
	sess.LastGreetIndex = idx

	lines := []string{
		fmt.Sprintf(variants[idx], hon),
		fmt.Sprintf("It's %s on %s, %s.",
			now.Format("3:04 PM"), now.Format("Monday"), now.Format("January 2, 2006")),
	}
	if manual {
		lines = append(lines, fmt.Sprintf("How are things going today, %s?", hon))
	}
	return lines
}

var helloFollowups = []string{
	"How's everything going today?",
	"How are things on your end?",
	"Everything running smoothly, I hope?",
	"How have you been keeping lately?",
	"How's your day treating you so far?",
	"All systems good on your side, I presume?",
}

func handleGreeting(_ context.Context, col *Collaborators, m *nlu.Match, sess *session.Session) ([]string, error) {
	if m.Param("kind") == "hello" {
		return []string{
			fmt.Sprintf("Oh hello, %s!", col.hon()),
			helloFollowups[rand.Intn(len(helloFollowups))],
		}, nil
	}
	return GreetLines(col, sess, true), nil
}
