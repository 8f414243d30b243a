package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string    `json:"status"`
	Uptime           string    `json:"uptime"`
	Connected        bool      `json:"connected"`
	EventStream      bool      `json:"event_stream"`
	CommandsReceived int64     `json:"commands_received"`
	LastCommandTime  time.Time `json:"last_command_time,omitempty"`
	APIReachable     bool      `json:"api_reachable"`
}

var (
	startTime       = time.Now()
	commandCounter  atomic.Int64
	lastCommandUnix atomic.Int64
)

// RecordCommand increments the command counter
func RecordCommand() {
	commandCounter.Add(1)
	lastCommandUnix.Store(time.Now().UnixNano())
}

// Health reports the bot's state. The bot is degraded when the gateway is
// down or the API does not answer.
func (b *Bot) Health(ctx context.Context) HealthStatus {
	connected := b.Session != nil && b.Session.DataReady

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	apiReachable := b.Client != nil && b.Client.Health(ctx) == nil

	status := HealthStatus{
		Status:           "healthy",
		Uptime:           time.Since(startTime).Round(time.Second).String(),
		Connected:        connected,
		EventStream:      b.events != nil && b.events.IsConnected(),
		CommandsReceived: commandCounter.Load(),
		APIReachable:     apiReachable,
	}
	if last := lastCommandUnix.Load(); last > 0 {
		status.LastCommandTime = time.Unix(0, last).UTC()
	}
	if !connected || !apiReachable {
		status.Status = "degraded"
	}
	return status
}

// HandleHealth returns the bot's health status
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := h.bot.Health(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	// headers are already sent, nothing useful to do on failure
	_ = json.NewEncoder(w).Encode(health)
}
