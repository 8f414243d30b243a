package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordCommand tests command tracking
func TestRecordCommand(t *testing.T) {
	before := commandCounter.Load()

	RecordCommand()
	RecordCommand()
	RecordCommand()

	assert.Equal(t, before+3, commandCounter.Load())
	assert.NotZero(t, lastCommandUnix.Load())
}

func TestHealth_APIReachable(t *testing.T) {
	tc := SetupTestContext(t)
	tc.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, map[string]string{"status": "ok"})
	})

	status := tc.Bot.Health(context.Background())
	assert.True(t, status.APIReachable)
	// the test session never opened a gateway connection
	assert.False(t, status.Connected)
	assert.Equal(t, "degraded", status.Status)
}

func TestHandleHealth(t *testing.T) {
	tc := SetupTestContext(t)
	tc.Session.DataReady = true
	tc.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, map[string]string{"status": "ok"})
	})

	srv := NewHTTPServer(0, tc.Bot)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.Connected)

	// API down
	tc.Server.Close()
	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
