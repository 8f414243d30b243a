// Package verifier resolves usernames against each platform's public
// user-lookup API and normalizes the response into a domain sub-record.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/metrics"
)

// Verifier looks a username up on one platform. It returns
// domain.ErrAccountNotFound when the platform has no such account.
type Verifier interface {
	Verify(ctx context.Context, username string) (domain.Account, error)
}

// VerifierFunc adapts a function to Verifier
type VerifierFunc func(ctx context.Context, username string) (domain.Account, error)

func (f VerifierFunc) Verify(ctx context.Context, username string) (domain.Account, error) {
	return f(ctx, username)
}

// Registry dispatches lookups by platform and records lookup metrics
type Registry struct {
	mu        sync.RWMutex
	verifiers map[string]Verifier
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[string]Verifier)}
}

// Register installs v for platform, replacing any previous verifier
func (r *Registry) Register(platform string, v Verifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifiers[platform] = v
}

// Supports reports whether platform has a verifier
func (r *Registry) Supports(platform string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.verifiers[platform]
	return ok
}

// Verify looks username up on platform
func (r *Registry) Verify(ctx context.Context, platform, username string) (domain.Account, error) {
	r.mu.RLock()
	v, ok := r.verifiers[platform]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no verifier for %s", domain.ErrInvalidPlatform, platform)
	}

	start := time.Now()
	account, err := v.Verify(ctx, username)
	metrics.VerifierLatency.WithLabelValues(platform).Observe(time.Since(start).Seconds())

	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		metrics.VerifierLookups.WithLabelValues(platform, metrics.OutcomeNotFound).Inc()
		log.Debug(LogMsgLookupNotFound, "platform", platform, "username", username)
	case err != nil:
		metrics.VerifierLookups.WithLabelValues(platform, metrics.OutcomeError).Inc()
		log.Warn(LogMsgLookupFailed, "platform", platform, "username", username, "error", err)
	default:
		metrics.VerifierLookups.WithLabelValues(platform, metrics.OutcomeSuccess).Inc()
	}
	return account, err
}

// NewHTTPClient returns the resty client shared by the verifiers
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(DefaultRetryCount).
		SetRetryWaitTime(DefaultRetryWait).
		SetRetryMaxWaitTime(DefaultRetryMaxWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500 || resp.StatusCode() == 429
		})
}

// Options configures NewDefaultRegistry
type Options struct {
	TwitchClientID     string
	TwitchClientSecret string
	SteamAPIKey        string
	Timeout            time.Duration
}

// NewDefaultRegistry wires the Twitch and Minecraft verifiers, plus Steam when
// a key is configured
func NewDefaultRegistry(opts Options) *Registry {
	client := NewHTTPClient(opts.Timeout)

	r := NewRegistry()
	r.Register(domain.PlatformTwitch, NewTwitchVerifier(client, opts.TwitchClientID, opts.TwitchClientSecret))
	r.Register(domain.PlatformMinecraft, NewMinecraftVerifier(client))
	if opts.SteamAPIKey != "" {
		r.Register(domain.PlatformSteam, NewSteamVerifier(client, opts.SteamAPIKey))
	}
	return r
}
