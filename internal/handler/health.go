package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// readinessTimeout bounds all dependency pings of one readiness check
const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Pinger is implemented by every backing store (pgxpool, mongo, redis)
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz pings every named dependency
// @Summary Readiness check
// @Description Returns OK if every backing store answers a ping
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(deps map[string]Pinger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		healthy := true
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "dependency", name, "error", err)
				checks[name] = "unavailable"
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "dependency check failed",
				Checks:  checks,
			})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
	}
}
