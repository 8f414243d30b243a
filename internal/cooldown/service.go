package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Service manages per-user command cooldowns for the chat bots
type Service interface {
	// CheckCooldown reports whether a user's action is on cooldown
	// Returns: (onCooldown bool, remaining time.Duration)
	CheckCooldown(ctx context.Context, userID, action string) (bool, time.Duration)

	// EnforceCooldown checks the cooldown and runs fn when allowed.
	// The cooldown only starts when fn succeeds.
	EnforceCooldown(ctx context.Context, userID, action string, fn func() error) error

	// ResetCooldown clears a user's cooldown for an action
	ResetCooldown(ctx context.Context, userID, action string)
}

// ErrOnCooldown is returned when action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Action, minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Action, seconds)
}

// Is allows errors.Is() to work with ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	_, ok := target.(ErrOnCooldown)
	return ok
}
