package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/assistant"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/brain"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/config"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/skills"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/store"
)

func testServer(t *testing.T, token string) *Server {
	t.Helper()

	cfg := &config.Config{
		WakeWord:         "jarvis",
		Honorific:        "Sir",
		PreferredAIModel: "gpt",
	}
	col := &skills.Collaborators{
		Cfg:   cfg,
		Store: store.New(filepath.Join(t.TempDir(), "data.json")),
	}
	b := brain.New(config.Keys{}, config.ModelConfig{}, cfg.Honorific, nil)
	asst := assistant.New(cfg, col, b, nil, nil)

	return NewServer(config.WebConfig{Addr: "127.0.0.1:0", Token: token}, asst, nil)
}

func postCommand(t *testing.T, h http.Handler, body commandRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCommandEndpoint(t *testing.T) {
	srv := testServer(t, "secret")
	h := srv.Routes()

	rec := postCommand(t, h, commandRequest{Token: "secret", Utterance: "what time is it"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp commandResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Response)
	assert.Contains(t, resp.Response[0], "The current time is")
}

func TestCommandRejectsBadToken(t *testing.T) {
	srv := testServer(t, "secret")
	h := srv.Routes()

	rec := postCommand(t, h, commandRequest{Token: "wrong", Utterance: "what time is it"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommandRejectsMalformedBody(t *testing.T) {
	srv := testServer(t, "")
	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommandEmptyUtterance(t *testing.T) {
	srv := testServer(t, "")
	rec := postCommand(t, srv.Routes(), commandRequest{Utterance: "   "})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp commandResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Response)
}

func TestStatusEndpoint(t *testing.T) {
	srv := testServer(t, "")
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "dormant", resp.State)
	assert.Equal(t, "gpt", resp.Backend)
	assert.False(t, resp.Muted)
}

func TestVoiceWithoutTranscriber(t *testing.T) {
	srv := testServer(t, "")
	req := httptest.NewRequest(http.MethodPost, "/voice", bytes.NewReader([]byte("RIFFxxxx")))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
