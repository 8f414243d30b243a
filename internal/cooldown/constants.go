package cooldown

import "time"

// =============================================================================
// Duration Constants
// =============================================================================

const (
	// DefaultCooldownDuration is the fallback cooldown when no specific duration is configured
	DefaultCooldownDuration = 5 * time.Second

	// DefaultTrackedEntries bounds the in-memory cooldown table
	DefaultTrackedEntries = 4096
)

// =============================================================================
// Action Names
// =============================================================================

const (
	ActionBeeName    = "bee_name"
	ActionSuggestion = "suggestion"
	ActionLink       = "link"
)

// =============================================================================
// Error Messages
// =============================================================================

const (
	ErrFmtCooldownWithMinutes = "action '%s' on cooldown: %dm %ds remaining"
	ErrFmtCooldownSecondsOnly = "action '%s' on cooldown: %ds remaining"
)

// =============================================================================
// Log Messages
// =============================================================================

const (
	LogMsgOnCooldown    = "Action on cooldown"
	LogMsgActionFailed  = "Action failed, cooldown not started"
	LogMsgCooldownReset = "Cooldown reset"
)
