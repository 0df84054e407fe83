package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// splitSentences breaks text at sentence punctuation. Interruption happens
// between sentences, never inside one.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Speaker renders sentences through espeak-ng, one process per sentence so
// that Interrupt can cut in at a sentence boundary. In accessibility mode the
// text is printed instead of (not in addition to) being synthesized.
type Speaker struct {
	Rate          int // espeak words per minute
	Volume        int // 0..200
	Accessibility bool
	Print         func(string) // accessibility sink, defaults to stdout

	Ducker *Ducker

	mu  sync.Mutex // serializes whole Say calls
	gen atomic.Int64
}

func NewSpeaker(rate, volume int, accessibility bool) *Speaker {
	if rate <= 0 {
		rate = 170
	}
	if volume <= 0 {
		volume = 100
	}
	return &Speaker{Rate: rate, Volume: volume, Accessibility: accessibility}
}

// Interrupt aborts the current Say between sentences. Already-started
// sentences finish; queued ones are dropped.
func (s *Speaker) Interrupt() {
	s.gen.Add(1)
}

// Say speaks every line in order. Muted output is the caller's concern; the
// speaker itself only knows about accessibility mode and interrupts.
func (s *Speaker) Say(ctx context.Context, lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.gen.Load()

	if s.Ducker != nil {
		if err := s.Ducker.DuckOthers(ctx, 0.3, 200*time.Millisecond); err != nil {
			slog.Debug("duck failed", "err", err)
		}
		defer func() {
			if err := s.Ducker.UnduckOthers(ctx, 200*time.Millisecond); err != nil {
				slog.Debug("unduck failed", "err", err)
			}
		}()
	}

	for _, line := range lines {
		for _, sentence := range splitSentences(line) {
			if s.gen.Load() != gen || ctx.Err() != nil {
				return
			}
			if s.Accessibility {
				s.print(sentence)
				continue
			}
			if err := s.speakSentence(ctx, sentence); err != nil {
				slog.Warn("tts failed, falling back to text", "err", err)
				s.print(sentence)
			}
		}
	}
}

func (s *Speaker) speakSentence(ctx context.Context, sentence string) error {
	cmd := exec.CommandContext(ctx, "espeak-ng",
		"-s", strconv.Itoa(s.Rate),
		"-a", strconv.Itoa(s.Volume),
		sentence)
	return cmd.Run()
}

func (s *Speaker) print(line string) {
	if s.Print != nil {
		s.Print(line)
		return
	}
	fmt.Println(line)
}
