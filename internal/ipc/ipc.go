// Package ipc exposes a unix-socket control surface for the daemon. The ctl
// binary and desktop keybindings talk to it with single-shot JSON requests.
package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/nasdx.sock"

// Request is one control command. Arg carries the utterance for "say".
type Request struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// Response reports the outcome and, for status and say, the daemon state and
// reply lines.
type Response struct {
	OK      bool     `json:"ok"`
	State   string   `json:"state,omitempty"`
	Muted   bool     `json:"muted,omitempty"`
	Backend string   `json:"backend,omitempty"`
	Lines   []string `json:"lines,omitempty"`
	Err     string   `json:"err,omitempty"`
}

// StartServer listens on the socket and serves each connection with handler.
// The socket file is replaced if a stale one exists.
func StartServer(path string, handler func(Request) Response) (func(), error) {
	if path == "" {
		path = DefaultSocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, handler)
		}
	}()

	stop := func() {
		ln.Close()
		os.Remove(path)
	}
	return stop, nil
}

func serveConn(conn net.Conn, handler func(Request) Response) {
	defer conn.Close()

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		slog.Debug("ipc decode failed", "err", err)
		return
	}
	resp := handler(req)
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		slog.Debug("ipc encode failed", "err", err)
	}
}

// Send dials the daemon socket, sends one request and waits for the response.
func Send(path string, req Request) (Response, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
