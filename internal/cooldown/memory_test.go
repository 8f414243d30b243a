package cooldown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(clock *fakeClock) Service {
	return NewMemoryService(Config{
		Default:   10 * time.Second,
		Cooldowns: map[string]time.Duration{ActionLink: time.Minute},
		Now:       clock.Now,
	})
}

func TestEnforceCooldown(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(clock)

	calls := 0
	run := func() error { calls++; return nil }

	require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionBeeName, run))

	err := svc.EnforceCooldown(ctx, "u1", ActionBeeName, run)
	var cdErr ErrOnCooldown
	require.ErrorAs(t, err, &cdErr)
	assert.Equal(t, ActionBeeName, cdErr.Action)
	assert.Equal(t, 10*time.Second, cdErr.Remaining)
	assert.Equal(t, 1, calls)

	// other users and actions are independent
	require.NoError(t, svc.EnforceCooldown(ctx, "u2", ActionBeeName, run))
	require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionSuggestion, run))

	clock.Advance(10 * time.Second)
	require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionBeeName, run))
	assert.Equal(t, 4, calls)
}

func TestEnforceCooldown_PerActionOverride(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(clock)

	require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionLink, func() error { return nil }))
	clock.Advance(30 * time.Second)

	onCooldown, remaining := svc.CheckCooldown(ctx, "u1", ActionLink)
	assert.True(t, onCooldown)
	assert.Equal(t, 30*time.Second, remaining)
}

func TestEnforceCooldown_FailureReleasesSlot(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(clock)

	boom := errors.New("boom")
	err := svc.EnforceCooldown(ctx, "u1", ActionBeeName, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	onCooldown, _ := svc.CheckCooldown(ctx, "u1", ActionBeeName)
	assert.False(t, onCooldown)
}

func TestResetCooldown(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestService(clock)

	require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionBeeName, func() error { return nil }))
	svc.ResetCooldown(ctx, "u1", ActionBeeName)

	onCooldown, _ := svc.CheckCooldown(ctx, "u1", ActionBeeName)
	assert.False(t, onCooldown)
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService(Config{Disabled: true})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.EnforceCooldown(ctx, "u1", ActionBeeName, func() error { return nil }))
	}
	onCooldown, _ := svc.CheckCooldown(ctx, "u1", ActionBeeName)
	assert.False(t, onCooldown)
}

func TestEnforceCooldown_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService(Config{Default: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.EnforceCooldown(ctx, "u1", ActionBeeName, func() error { return nil })
			if err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, allowed)
}
