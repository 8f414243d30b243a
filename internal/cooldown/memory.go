package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// memoryBackend implements Service with an expiring LRU table
type memoryBackend struct {
	mu      sync.Mutex
	config  Config
	entries *expirable.LRU[string, time.Time]
}

// NewMemoryService creates a cooldown service that keeps last-used times in memory.
// Entries expire once the longest configured cooldown has passed.
func NewMemoryService(config Config) Service {
	size := config.Size
	if size <= 0 {
		size = DefaultTrackedEntries
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	ttl := config.GetCooldownDuration("")
	for _, d := range config.Cooldowns {
		if d > ttl {
			ttl = d
		}
	}

	return &memoryBackend{
		config:  config,
		entries: expirable.NewLRU[string, time.Time](size, nil, ttl),
	}
}

func key(userID, action string) string {
	return action + ":" + userID
}

// CheckCooldown checks if a user's action is on cooldown
func (b *memoryBackend) CheckCooldown(ctx context.Context, userID, action string) (bool, time.Duration) {
	if b.config.Disabled {
		return false, 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkLocked(userID, action)
}

func (b *memoryBackend) checkLocked(userID, action string) (bool, time.Duration) {
	lastUsed, ok := b.entries.Get(key(userID, action))
	if !ok {
		return false, 0
	}

	remaining := b.config.GetCooldownDuration(action) - b.config.Now().Sub(lastUsed)
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// EnforceCooldown checks the cooldown, reserves the slot, and runs fn.
// A failed fn releases the slot so the user can retry straight away.
func (b *memoryBackend) EnforceCooldown(ctx context.Context, userID, action string, fn func() error) error {
	log := logger.FromContext(ctx)

	if b.config.Disabled {
		return fn()
	}

	b.mu.Lock()
	if onCooldown, remaining := b.checkLocked(userID, action); onCooldown {
		b.mu.Unlock()
		log.Debug(LogMsgOnCooldown, "user_id", userID, "action", action, "remaining", remaining)
		return ErrOnCooldown{Action: action, Remaining: remaining}
	}
	k := key(userID, action)
	previous, hadPrevious := b.entries.Peek(k)
	b.entries.Add(k, b.config.Now())
	b.mu.Unlock()

	if err := fn(); err != nil {
		b.mu.Lock()
		if hadPrevious {
			b.entries.Add(k, previous)
		} else {
			b.entries.Remove(k)
		}
		b.mu.Unlock()
		log.Debug(LogMsgActionFailed, "user_id", userID, "action", action, "error", err)
		return err
	}
	return nil
}

// ResetCooldown clears the cooldown for a user's action
func (b *memoryBackend) ResetCooldown(ctx context.Context, userID, action string) {
	b.mu.Lock()
	b.entries.Remove(key(userID, action))
	b.mu.Unlock()
	logger.FromContext(ctx).Debug(LogMsgCooldownReset, "user_id", userID, "action", action)
}
