package skills

import (
	"context"
	"fmt"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

// Version is stamped by the build; spoken by the version intent.
var Version = "mark-2"

// Muting is not a toggle: the handler always leaves the flag set, and the
// router's auto-unmute timer always clears it, so a second "mute" in a row
// cannot accidentally unmute.
func handleMute(_ context.Context, col *Collaborators, _ *nlu.Match, sess *session.Session) ([]string, error) {
	sess.Muted = true
	return []string{fmt.Sprintf("Understood, %s.", col.hon())}, nil
}

func handleUnmute(_ context.Context, col *Collaborators, _ *nlu.Match, sess *session.Session) ([]string, error) {
	sess.Muted = false
	return []string{fmt.Sprintf("Audio restored, %s.", col.hon())}, nil
}

func handleTime(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	return []string{fmt.Sprintf("The current time is %s, %s.", col.now().Format("3:04 PM"), col.hon())}, nil
}

func handleDate(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	return []string{fmt.Sprintf("Today is %s, %s.", col.now().Format("Monday, January 2, 2006"), col.hon())}, nil
}

func handleSystemStatus(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Status == nil {
		return []string{col.NotConfigured("system monitoring")}, nil
	}
	st, err := col.Status()
	if err != nil {
		return nil, fmt.Errorf("system status: %w", err)
	}
	lines := []string{fmt.Sprintf("Gathering system status report, %s.", col.hon())}
	return append(lines, st.Speakable()...), nil
}

func handleVersion(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	return []string{fmt.Sprintf("%s, my current version is %s.", col.hon(), Version)}, nil
}

func handleIntroduce(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	return []string{fmt.Sprintf(
		"Allow me to introduce myself. I am NASDX, a virtual assistant, here to help you with a variety of tasks, %s.",
		col.hon())}, nil
}

func handleWeather(ctx context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Weather == nil {
		return []string{col.NotConfigured("weather")}, nil
	}
	report, err := col.Weather.Current(ctx, m.Param("city"))
	if err != nil {
		return nil, fmt.Errorf("%w: weather lookup: %v", brain.ErrNetwork, err)
	}
	return []string{report}, nil
}
