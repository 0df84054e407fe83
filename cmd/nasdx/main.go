package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/assistant"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/desktop"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/diag"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/ipc"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/prompts"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/proxy"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/speech"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/sysmon"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/web"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configPath := cli.StringP("config", "c", "nasdx.yaml", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	socketPath := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	keys := config.LoadKeys()

	httpClient, err := proxy.NewSocksClient(cfg.SocksProxy)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
		os.Exit(1)
	}

	st := store.New(cfg.DataFile)
	brn := brain.New(keys, cfg.Models, cfg.Honorific, httpClient)

	rec := speech.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	whisper, err := speech.NewTranscriber(cfg.Listen.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.Listen.WhisperModel, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	speaker := speech.NewSpeaker(cfg.VoiceRate, int(cfg.VoiceVolume*100), cfg.AccessibilityMode)
	speaker.Ducker = speech.NewDucker([]string{"nasdx", "espeak-ng"}, 20)

	listener := speech.NewVoiceListener(rec, whisper, cfg.Listen)

	sched := prompts.NewScheduler()
	sched.AppRuntime = desktop.AppRuntime
	registerDefaultPrompts(sched)

	col := &skills.Collaborators{
		Cfg:    cfg,
		Store:  st,
		Opener: desktop.Opener{},
		Apps:   desktop.AppManager{},
		Diag:   diag.New(cfg.DataFile, *configPath, st),
		Sched:  sched,
		Status: sysmon.Snapshot,
	}

	asst := assistant.New(cfg, col, brn, speaker, listener)
	asst.SetWakeCue(func() {
		if err := speech.Cue(cfg.CuePath); err != nil {
			log.Debug("Wake cue failed", "path", cfg.CuePath, "err", err)
		}
	})

	log.Info("Boot up - successful", "wake_word", cfg.WakeWord, "backend", cfg.PreferredAIModel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx, 30*time.Second)

	stopIPC, err := ipc.StartServer(*socketPath, func(req ipc.Request) ipc.Response {
		return handleControl(ctx, asst, req)
	})
	if err != nil {
		log.Error("Failed to start ipc server", "err", err)
		os.Exit(1)
	}
	defer stopIPC()

	if cfg.Web.Addr != "" {
		srv := web.NewServer(cfg.Web, asst, whisper)
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Error("Web api failed", "err", err)
			}
		}()
	}

	if err := asst.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("Assistant loop failed", "err", err)
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}

func handleControl(ctx context.Context, asst *assistant.Assistant, req ipc.Request) ipc.Response {
	switch req.Cmd {
	case "trigger":
		asst.Wake()
		return ipc.Response{OK: true, State: asst.State().String()}
	case "interrupt":
		asst.Interrupt()
		return ipc.Response{OK: true}
	case "say":
		lines := asst.HandleUtterance(ctx, req.Arg)
		return ipc.Response{OK: true, Lines: lines, State: asst.State().String()}
	case "mute":
		lines := asst.HandleUtterance(ctx, "mute")
		return ipc.Response{OK: true, Lines: lines, Muted: asst.Muted()}
	case "unmute":
		lines := asst.HandleUtterance(ctx, "unmute")
		return ipc.Response{OK: true, Lines: lines, Muted: asst.Muted()}
	case "status":
		return ipc.Response{
			OK:      true,
			State:   asst.State().String(),
			Muted:   asst.Muted(),
			Backend: string(asst.Backend()),
		}
	default:
		log.Warn("Unknown control command", "cmd", req.Cmd)
		return ipc.Response{Err: "unknown command: " + req.Cmd}
	}
}

// registerDefaultPrompts installs the built-in reminder rules. User-specific
// prompts are registered the same way through the scheduler API.
func registerDefaultPrompts(s *prompts.Scheduler) {
	s.Register(&prompts.Prompt{
		ID:       "hydration",
		Message:  "A gentle reminder to drink some water.",
		Trigger:  prompts.TriggerInterval,
		Cooldown: 2 * time.Hour,
		Enabled:  true,
	})
	s.Register(&prompts.Prompt{
		ID:      "late-night",
		Message: "It's getting rather late. Do consider resting soon.",
		Trigger: prompts.TriggerTime,
		Time: prompts.TimeParams{
			Hour: 23, Minute: 30, EndHour: 23, EndMinute: 59,
		},
		Cooldown: 6 * time.Hour,
		Enabled:  true,
	})
	s.Register(&prompts.Prompt{
		ID:      "screen-break",
		Message: "You've been in the browser for quite a while. A short break would do you good.",
		Trigger: prompts.TriggerAppDuration,
		App: prompts.AppParams{
			AppNames: []string{"firefox", "chrome", "chromium"},
			Duration: 2 * time.Hour,
		},
		Cooldown: 2 * time.Hour,
		Enabled:  true,
	})
	s.Register(&prompts.Prompt{
		ID:      "system-load",
		Message: "System load is critically high. You may want to close something.",
		Trigger: prompts.TriggerCustom,
		Condition: func(time.Time) bool {
			st, err := sysmon.Snapshot()
			return err == nil && st.Critical()
		},
		Cooldown: 30 * time.Minute,
		Enabled:  true,
	})
}
