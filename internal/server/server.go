package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/beename"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/metrics"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/sse"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	// RatePerSecond and RateBurst size each client IP's token bucket
	RatePerSecond float64
	RateBurst     int
	// Dependencies maps a store name to its health check for /readyz
	Dependencies map[string]handler.Pinger
	// Events is served on /api/v1/events when set
	Events *sse.Hub
}

type Server struct {
	httpServer     *http.Server
	userService    user.Service
	linkingService linking.Service
	beeNameService beename.Service
}

// NewServer creates a new Server instance
func NewServer(opts Options, userService user.Service, linkingService linking.Service, beeNameService beename.Service) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, userService, linkingService, beeNameService),
			ReadHeaderTimeout: 5 * time.Second,
		},
		userService:    userService,
		linkingService: linkingService,
		beeNameService: beeNameService,
	}
}

// NewRouter builds the route tree. Public and authenticated routes share
// paths and differ only by method, so auth is applied per route group.
func NewRouter(opts Options, userService user.Service, linkingService linking.Service, beeNameService beename.Service) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	guard := NewClientGuard(opts.RatePerSecond, opts.RateBurst, opts.TrustedProxies)
	requireKey := AuthMiddleware(opts.APIKey, guard)

	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(guard))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/", handler.HandleLanding())

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Dependencies))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	beeNames := handler.NewBeeNameHandlers(beeNameService)
	links := handler.NewLinkHandlers(userService, linkingService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/bee-name-generator", func(r chi.Router) {
			// Public
			r.Get("/name", beeNames.HandleGetName())
			r.Post("/suggestion", beeNames.HandleSubmitSuggestion())
			r.Post("/suggestion/{name}", beeNames.HandleSubmitSuggestion())

			r.Group(func(r chi.Router) {
				r.Use(requireKey)

				r.Post("/name", beeNames.HandleUploadName())
				r.Post("/name/{name}", beeNames.HandleUploadName())
				r.Delete("/name", beeNames.HandleDeleteName())
				r.Delete("/name/{name}", beeNames.HandleDeleteName())

				r.Get("/suggestion", beeNames.HandleGetSuggestions())
				r.Get("/suggestion/{amount}", beeNames.HandleGetSuggestions())
				r.Put("/suggestion", beeNames.HandleAcceptSuggestion())
				r.Put("/suggestion/{name}", beeNames.HandleAcceptSuggestion())
				r.Delete("/suggestion", beeNames.HandleRejectSuggestion())
				r.Delete("/suggestion/{name}", beeNames.HandleRejectSuggestion())
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireKey)

			r.Route("/users", func(r chi.Router) {
				r.Post("/resolve", handler.HandleResolveUser(userService))
				r.Get("/{id}", handler.HandleGetUser(userService))
			})

			r.Route("/link", func(r chi.Router) {
				r.Post("/", links.HandleLink())
				r.Get("/status", links.HandleStatus())
			})

			if opts.Events != nil {
				r.Get("/events", sse.Handler(opts.Events))
			}
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		for _, p := range quietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
