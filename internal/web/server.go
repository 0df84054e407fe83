// Package web is the out-of-band command surface: a small HTTP API for
// submitting text or voice commands and a websocket feed of every exchange.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/assistant"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/pkg/audioconv"
)

// maxVoiceUpload bounds the /voice request body.
const maxVoiceUpload = 10 << 20

// Transcriber converts PCM to text for the /voice endpoint.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Server hosts the HTTP API. Transcriber may be nil, which disables /voice.
type Server struct {
	cfg  config.WebConfig
	asst *assistant.Assistant
	stt  Transcriber
	hub  *hub
}

func NewServer(cfg config.WebConfig, asst *assistant.Assistant, stt Transcriber) *Server {
	return &Server{cfg: cfg, asst: asst, stt: stt, hub: newHub()}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/command", s.handleCommand)
	r.Post("/voice", s.handleVoice)
	r.Get("/status", s.handleStatus)
	r.Get("/ws", s.handleWS)
	return r
}

// ListenAndServe runs the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	slog.Info("web api listening", "addr", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type commandRequest struct {
	Token     string `json:"token"`
	Utterance string `json:"utterance"`
}

type commandResponse struct {
	Transcript string   `json:"transcript,omitempty"`
	Response   []string `json:"response"`
}

func (s *Server) authorized(token string) bool {
	if s.cfg.Token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) == 1
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !s.authorized(req.Token) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lines := s.asst.HandleUtterance(r.Context(), req.Utterance)
	s.hub.broadcast(exchangeEvent{
		Utterance: req.Utterance,
		Response:  lines,
		Time:      time.Now().Format(time.RFC3339),
	})
	writeJSON(w, commandResponse{Response: lines})
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.Header.Get("X-Auth-Token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if s.stt == nil {
		http.Error(w, "transcription not available", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxVoiceUpload))
	if err != nil {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	pcm, err := audioconv.ConvertBytes(body, audioconv.Options{MaxSamples: 16000 * 60})
	if err != nil {
		slog.Warn("voice upload decode failed", "err", err)
		http.Error(w, "undecodable audio", http.StatusUnsupportedMediaType)
		return
	}

	text, err := s.stt.Transcribe(r.Context(), pcm)
	if err != nil {
		slog.Error("voice upload transcription failed", "err", err)
		http.Error(w, "transcription failed", http.StatusInternalServerError)
		return
	}

	lines := s.asst.HandleUtterance(r.Context(), text)
	s.hub.broadcast(exchangeEvent{
		Utterance: text,
		Response:  lines,
		Time:      time.Now().Format(time.RFC3339),
	})
	writeJSON(w, commandResponse{Transcript: text, Response: lines})
}

type statusResponse struct {
	State   string `json:"state"`
	Muted   bool   `json:"muted"`
	Backend string `json:"backend"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{
		State:   s.asst.State().String(),
		Muted:   s.asst.Muted(),
		Backend: string(s.asst.Backend()),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "err", err)
	}
}
