package event

import (
	"context"
	"sync"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// ResilientPublisher wraps a Bus and retries failed publishes in the
// background, dead-lettering events that never succeed
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterWriter

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// NewResilientPublisher creates a new ResilientPublisher. deadLetter may be nil,
// in which case exhausted events are only logged.
func NewResilientPublisher(inner Bus, config ResilientConfig, deadLetter *DeadLetterWriter) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryInitialDelay
	}
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: deadLetter,
		shutdown:   make(chan struct{}),
	}
}

// Publish returns nil once the event is accepted, even if the first attempt failed.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event, err)
	return nil
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	defer p.wg.Done()
	ctx := context.Background()

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		select {
		case <-time.After(CalculateRetryDelay(p.config.RetryDelay, attempt)):
		case <-p.shutdown:
			p.writeDeadLetter(event, attempt-1, lastErr)
			return
		}

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", event.Type, "attempt", attempt)
			return
		}
		logger.Warn(LogMsgEventRetryFailed, "event_type", event.Type, "attempt", attempt, "error", lastErr)
	}

	logger.Error(LogMsgEventRetryExhausted, "event_type", event.Type)
	p.writeDeadLetter(event, p.config.MaxRetries, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if p.deadLetter == nil {
		return
	}
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// Shutdown stops pending retries, dead-lettering their events, and waits for
// the retry goroutines to exit or ctx to expire
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
