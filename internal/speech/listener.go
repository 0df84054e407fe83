package speech

import (
	"context"
	"strings"
	"time"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
)

// VoiceListener couples the microphone recorder and the whisper transcriber
// into the single Listen call the assistant loop wants.
type VoiceListener struct {
	rec *Recorder
	tr  *Transcriber

	silenceAfter  time.Duration
	maxLen        time.Duration
	transcribeCap time.Duration
}

func NewVoiceListener(rec *Recorder, tr *Transcriber, cfg config.ListenConfig) *VoiceListener {
	l := &VoiceListener{
		rec:           rec,
		tr:            tr,
		silenceAfter:  time.Duration(cfg.SilenceMs) * time.Millisecond,
		maxLen:        time.Duration(cfg.MaxSeconds) * time.Second,
		transcribeCap: time.Duration(cfg.TranscribeSecs) * time.Second,
	}
	if l.transcribeCap <= 0 {
		l.transcribeCap = 60 * time.Second
	}
	return l
}

// Listen records one utterance and transcribes it. Silence comes back as an
// empty string, not an error.
func (l *VoiceListener) Listen(ctx context.Context) (string, error) {
	pcm, err := l.rec.Capture(l.silenceAfter, l.maxLen)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.transcribeCap)
	defer cancel()

	text, err := l.tr.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
