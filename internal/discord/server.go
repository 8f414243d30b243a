package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServer exposes the bot's health and metrics
type HTTPServer struct {
	server *http.Server
	bot    *Bot
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(port int, bot *Bot) *HTTPServer {
	srv := &HTTPServer{bot: bot}

	r := chi.NewRouter()
	r.Get("/healthz", srv.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Start starts the HTTP server in the background
func (s *HTTPServer) Start() {
	go func() {
		slog.Info("Starting Discord internal HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Discord internal HTTP server failed", "error", err)
		}
	}()
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Discord internal HTTP server shutdown failed", "error", err)
	}
}
