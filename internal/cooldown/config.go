package cooldown

import "time"

// Config holds cooldown service configuration
type Config struct {
	// Disabled bypasses all cooldowns when true
	Disabled bool

	// Default applies to actions without an override
	Default time.Duration

	// Cooldowns maps action names to their durations
	Cooldowns map[string]time.Duration

	// Size caps the number of tracked (user, action) pairs
	Size int

	// Now is injectable for tests
	Now func() time.Time
}

// GetCooldownDuration returns the cooldown duration for an action
func (c *Config) GetCooldownDuration(action string) time.Duration {
	if c.Cooldowns != nil {
		if duration, ok := c.Cooldowns[action]; ok {
			return duration
		}
	}
	if c.Default > 0 {
		return c.Default
	}
	return DefaultCooldownDuration
}
