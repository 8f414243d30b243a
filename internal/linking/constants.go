package linking

import "time"

// ============================================================================
// Timing
// ============================================================================

const (
	// DefaultCallTimeout bounds every store and verifier call made while linking
	DefaultCallTimeout = 5 * time.Second

	// DefaultCleanupTimeout bounds a single pending-link sweep
	DefaultCleanupTimeout = 30 * time.Second
)

// ============================================================================
// User-Facing Messages
// ============================================================================

const (
	MsgMinecraftLinked  = "Your Minecraft %s account has been linked"
	MsgSteamLinked      = "Your Steam account has been linked"
	MsgTwitchLinked     = "Your Twitch account has been linked"
	MsgGenericLinked    = "Your %s account has been linked"
	MsgDiscordPending   = "Pending confirmation of your Discord account, please confirm the account link using our Discord Bot: /link twitch %s"
	EditionLabelJava    = "Java"
	EditionLabelBedrock = "Bedrock"
)

// ============================================================================
// Error Messages (Client-Facing)
// ============================================================================

const (
	ErrMsgInvalidUsername = "Invalid %s username"
	ErrMsgAlreadyLinked   = "This %s account has already been linked"
	ErrMsgNoPendingLink   = "There is no link pending for this Twitch account, please link your %[1]s account in Twitch chat:\n```!link %[1]s username```"
	ErrMsgLinkFailed      = "Failed to link your account, please try again"
	ErrMsgTimeout         = "Linking your account took too long, please try again"
	ErrMsgInternal        = "An error occurred while linking your account"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgLinkStarted       = "Link requested"
	LogMsgLinkSucceeded     = "Account linked"
	LogMsgLinkFailed        = "Link failed"
	LogMsgPendingCreated    = "Pending link created"
	LogMsgAccountsMerged    = "Accounts merged"
	LogMsgHolderDeleteFail  = "Failed to delete merged record"
	LogMsgPendingDeleteFail = "Failed to delete confirmed pending link"
	LogMsgPublishFailed     = "Failed to publish link event"
	LogMsgCleanupCompleted  = "Expired pending links removed"
	LogMsgCleanupFailed     = "Pending link cleanup failed"
)
