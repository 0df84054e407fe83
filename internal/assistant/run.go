package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
)

// listenBackoff is the pause after an empty capture, randomized a little so
// the loop doesn't align with periodic background noise.
func listenBackoff() time.Duration {
	return 300*time.Millisecond + time.Duration(rand.Intn(200))*time.Millisecond
}

// Run drives the voice loop until shutdown or ctx cancellation. Reminders are
// voiced only between utterances: the due channel is drained before each
// listen, never while a reply is in flight.
func (a *Assistant) Run(ctx context.Context) error {
	slog.Info("assistant loop starting", "wake_word", a.cfg.WakeWord)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if a.State() == StateTerminated {
			slog.Info("assistant loop terminating")
			return nil
		}

		a.deliverReminders(ctx)

		switch a.State() {
		case StateDormant:
			a.runDormant(ctx)
		case StateAsleep:
			a.runAsleep(ctx)
		case StateActive:
			a.runActive(ctx)
		}
	}
}

func (a *Assistant) runDormant(ctx context.Context) {
	text, err := a.listener.Listen(ctx)
	if err != nil {
		slog.Warn("listen failed", "err", err)
		sleepCtx(ctx, time.Second)
		return
	}

	woke, rest := a.detector.Detect(text)
	if !woke {
		sleepCtx(ctx, listenBackoff())
		return
	}
	slog.Info("wake word detected", "rest", rest)

	a.mu.Lock()
	a.state = StateActive
	a.lastInput = time.Now()
	a.mu.Unlock()
	a.playWakeCue()

	if rest != "" {
		// Wake word and command in one breath; skip the greeting.
		wasMuted := a.Muted()
		a.respond(ctx, wasMuted, a.HandleUtterance(ctx, rest))
		return
	}

	a.mu.Lock()
	lines := skills.GreetLines(a.col, a.sess, false)
	a.mu.Unlock()
	a.respond(ctx, a.Muted(), lines)
}

func (a *Assistant) runAsleep(ctx context.Context) {
	text, err := a.listener.Listen(ctx)
	if err != nil {
		slog.Warn("listen failed", "err", err)
		sleepCtx(ctx, time.Second)
		return
	}

	woke, rest := a.detector.Detect(text)
	if !woke {
		sleepCtx(ctx, listenBackoff())
		return
	}

	a.mu.Lock()
	a.state = StateActive
	a.lastInput = time.Now()
	a.mu.Unlock()
	a.playWakeCue()

	a.respond(ctx, a.Muted(), []string{fmt.Sprintf("Yes, %s.", a.hon())})
	if rest != "" {
		wasMuted := a.Muted()
		a.respond(ctx, wasMuted, a.HandleUtterance(ctx, rest))
	}
}

func (a *Assistant) runActive(ctx context.Context) {
	if d := a.cfg.SleepAfter(); d > 0 {
		a.mu.Lock()
		idle := time.Since(a.lastInput)
		a.mu.Unlock()
		if idle > d {
			slog.Info("idle timeout, dropping to dormant", "idle", idle.Round(time.Second))
			a.mu.Lock()
			a.state = StateDormant
			a.mu.Unlock()
			return
		}
	}

	text, err := a.listener.Listen(ctx)
	if err != nil {
		slog.Warn("listen failed", "err", err)
		sleepCtx(ctx, time.Second)
		return
	}
	if text == "" {
		sleepCtx(ctx, listenBackoff())
		return
	}

	wasMuted := a.Muted()
	a.respond(ctx, wasMuted, a.HandleUtterance(ctx, text))
}

// respond speaks the reply unless the session was already muted before the
// utterance was handled. The mute confirmation itself still gets through:
// silence starts with the next reply.
func (a *Assistant) respond(ctx context.Context, wasMuted bool, lines []string) {
	if len(lines) == 0 {
		return
	}
	for _, l := range lines {
		slog.Debug("reply", "line", l)
	}
	if wasMuted && a.Muted() {
		return
	}
	a.speaker.Say(ctx, lines...)
}

// planNudgeEvery spaces out the unreviewed-schedule reminder.
const planNudgeEvery = 30 * time.Minute

// deliverReminders drains due reminder messages and schedule nudges. Runs
// between utterances only.
func (a *Assistant) deliverReminders(ctx context.Context) {
	if a.State() != StateActive || a.Muted() {
		return
	}

	if a.col.Sched != nil {
		for {
			select {
			case msg := <-a.col.Sched.Due():
				a.speaker.Say(ctx, msg)
				continue
			default:
			}
			break
		}
	}

	a.mu.Lock()
	due := time.Since(a.lastPlanNudge) >= planNudgeEvery
	if due {
		a.lastPlanNudge = time.Now()
	}
	a.mu.Unlock()
	if due {
		if lines := skills.UpcomingPlans(a.col); len(lines) > 0 {
			a.speaker.Say(ctx, lines...)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
