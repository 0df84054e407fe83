// Package prompts implements the proactive reminder registry. A scheduler
// goroutine evaluates registered prompts on a timer and emits due messages on
// a channel the main loop drains only between utterances, so a reminder can
// never interleave with an active spoken response.
package prompts

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TriggerType selects how a prompt decides it is due.
type TriggerType string

const (
	TriggerTime        TriggerType = "time"
	TriggerAppDuration TriggerType = "app_duration"
	TriggerInterval    TriggerType = "interval"
	TriggerCustom      TriggerType = "custom"
)

// TimeParams bounds a TriggerTime window (inclusive).
type TimeParams struct {
	Hour, Minute       int
	EndHour, EndMinute int
}

// AppParams configures a TriggerAppDuration prompt.
type AppParams struct {
	AppNames []string
	Duration time.Duration
}

// Prompt is one registered reminder rule. At most one prompt exists per ID;
// re-registration replaces.
type Prompt struct {
	ID       string
	Message  string
	Trigger  TriggerType
	Time     TimeParams
	App      AppParams
	Cooldown time.Duration
	Enabled  bool

	// Condition is consulted for TriggerCustom prompts.
	Condition func(now time.Time) bool

	lastTriggered time.Time
}

func (p *Prompt) due(now time.Time, appRuntime func([]string) time.Duration) bool {
	if !p.Enabled {
		return false
	}
	if !p.lastTriggered.IsZero() && now.Sub(p.lastTriggered) < p.Cooldown {
		return false
	}

	switch p.Trigger {
	case TriggerTime:
		start := p.Time.Hour*60 + p.Time.Minute
		end := p.Time.EndHour*60 + p.Time.EndMinute
		if end == 0 {
			end = 23*60 + 59
		}
		cur := now.Hour()*60 + now.Minute()
		return start <= cur && cur <= end
	case TriggerAppDuration:
		if appRuntime == nil {
			return false
		}
		return appRuntime(p.App.AppNames) >= p.App.Duration
	case TriggerInterval:
		return p.lastTriggered.IsZero() || now.Sub(p.lastTriggered) >= p.Cooldown
	case TriggerCustom:
		return p.Condition != nil && p.Condition(now)
	}
	return false
}

// Scheduler owns the registry and the evaluation loop.
type Scheduler struct {
	mu      sync.Mutex
	prompts map[string]*Prompt
	enabled bool
	due     chan string

	// AppRuntime reports how long any of the named processes has been
	// running; nil disables app-duration prompts.
	AppRuntime func(names []string) time.Duration

	now func() time.Time
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		prompts: map[string]*Prompt{},
		enabled: true,
		due:     make(chan string, 8),
		now:     time.Now,
	}
}

// Due is the channel of fired reminder messages.
func (s *Scheduler) Due() <-chan string { return s.due }

// Register adds or replaces a prompt.
func (s *Scheduler) Register(p *Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[p.ID] = p
}

// Remove deletes a prompt by ID.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prompts, id)
}

// List returns (id, message, enabled) for all registered prompts, sorted by ID.
func (s *Scheduler) List() [][3]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][3]string, 0, len(s.prompts))
	for _, p := range s.prompts {
		enabled := "disabled"
		if p.Enabled {
			enabled = "enabled"
		}
		out = append(out, [3]string{p.ID, p.Message, enabled})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// SetEnabled toggles the whole scheduler (the "disable time prompts" intent).
func (s *Scheduler) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

// SetCooldown updates the cooldown of every registered prompt.
func (s *Scheduler) SetCooldown(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prompts {
		p.Cooldown = d
	}
}

// Tick evaluates the registry once. Exported for the loop and for tests.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}
	now := s.now()
	for _, p := range s.prompts {
		if !p.due(now, s.AppRuntime) {
			continue
		}
		select {
		case s.due <- p.Message:
			p.lastTriggered = now
		default:
			// Queue full; the prompt stays due and fires next tick.
		}
	}
}

// Run evaluates the registry every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
