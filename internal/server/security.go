package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// ClientGuard rate limits callers by IP and counts their failed API key
// attempts. Idle clients age out of both tables after ClientIdleTTL.
type ClientGuard struct {
	trustedProxies []string
	limit          rate.Limit
	burst          int

	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	failures *expirable.LRU[string, int]
}

// NewClientGuard allows each IP perSecond requests on average with bursts
// of up to burst. A non-positive perSecond disables rate limiting.
func NewClientGuard(perSecond float64, burst int, trustedProxies []string) *ClientGuard {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = DefaultRateBurst
	}
	return &ClientGuard{
		trustedProxies: trustedProxies,
		limit:          limit,
		burst:          burst,
		limiters:       expirable.NewLRU[string, *rate.Limiter](MaxTrackedClients, nil, ClientIdleTTL),
		failures:       expirable.NewLRU[string, int](MaxTrackedClients, nil, ClientIdleTTL),
	}
}

// Allow takes one token from the IP's bucket
func (g *ClientGuard) Allow(ip string) bool {
	g.mu.Lock()
	limiter, ok := g.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(g.limit, g.burst)
	}
	// re-adding refreshes the idle TTL
	g.limiters.Add(ip, limiter)
	g.mu.Unlock()

	return limiter.Allow()
}

// RecordFailedAuth counts a rejected API key and returns the running total
func (g *ClientGuard) RecordFailedAuth(ip string) int {
	g.mu.Lock()
	count, _ := g.failures.Get(ip)
	count++
	g.failures.Add(ip, count)
	g.mu.Unlock()

	if count == FailedAuthAlertThreshold || (count > FailedAuthAlertThreshold && count%FailedAuthAlertThreshold == 0) {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", count)
	}
	return count
}

// ClientIP returns the caller's address. X-Forwarded-For is honored only
// when the direct peer is a trusted proxy, and then its rightmost entry wins.
func (g *ClientGuard) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !slices.Contains(g.trustedProxies, remoteIP) {
		return remoteIP
	}
	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// RateLimitMiddleware answers 429 once a caller's bucket is empty
func RateLimitMiddleware(guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := guard.ClientIP(r)
			if !guard.Allow(ip) {
				logger.FromContext(r.Context()).Debug(SecurityAlertHighRate, "ip", ip, "path", r.URL.Path)
				w.Header().Set(HeaderRetryAfter, "1")
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware validates the API key. The key may be sent as X-API-Key, as a
// bearer token, or as the bare Authorization header. An empty configured key
// rejects every request.
func AuthMiddleware(apiKey string, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := providedAPIKey(r)

			if apiKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := guard.ClientIP(r)
				failures := guard.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip,
					"failures", failures)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func providedAPIKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	auth := r.Header.Get(HeaderAuthorization)
	if len(auth) > len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return auth[len(bearerPrefix):]
	}
	return auth
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

var securityHeaders = map[string]string{
	HeaderContentType:    HeaderValueNoSniff,
	HeaderFrameOptions:   HeaderValueDeny,
	HeaderReferrerPolicy: HeaderValueNoReferrer,
	HeaderCSP:            HeaderValueCSPNone,
}

// SecurityHeadersMiddleware adds security headers to responses. The API
// serves JSON and event streams only, so nothing may be framed or embedded.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range securityHeaders {
				w.Header().Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}
