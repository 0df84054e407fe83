package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	ws "github.com/gorilla/websocket"
)

// exchangeEvent is pushed to every websocket subscriber after each handled
// command.
type exchangeEvent struct {
	Utterance string   `json:"utterance"`
	Response  []string `json:"response"`
	Time      string   `json:"time"`
}

var upgrader = ws.Upgrader{
	// The API is token-gated; the websocket feed is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type hub struct {
	mu    sync.Mutex
	conns map[*ws.Conn]struct{}
}

func newHub() *hub {
	return &hub{conns: map[*ws.Conn]struct{}{}}
}

func (h *hub) add(c *ws.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *hub) remove(c *ws.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		c.Close()
	}
}

// broadcast fans the event out, dropping subscribers whose writes fail.
func (h *hub) broadcast(ev exchangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteMessage(ws.TextMessage, payload); err != nil {
			slog.Debug("ws write failed, dropping subscriber", "err", err)
			delete(h.conns, c)
			c.Close()
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.URL.Query().Get("token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	s.hub.add(conn)

	// Drain and discard client frames; a read error means the peer left.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
