package domain

import "time"

// Platform constants
const (
	PlatformDiscord   = "discord"
	PlatformTwitch    = "twitch"
	PlatformMinecraft = "minecraft"
	PlatformSteam     = "steam"
)

// Sub-record fields usable with GetByPlatformField
const (
	FieldID       = "id"
	FieldUsername = "username"
	FieldLogin    = "login"
)

// Minecraft editions
const (
	MinecraftEditionJava    = "java"
	MinecraftEditionBedrock = "bedrock"
)

// Bee name constraints
const (
	MaxBeeNameLength     = 100
	DefaultSuggestionCap = 1
	MaxSuggestionCap     = 25
)

// Pending link defaults
const (
	DefaultPendingLinkTTL = time.Hour
)

// KnownPlatforms are platforms with a dedicated sub-record on the user record
var KnownPlatforms = []string{PlatformDiscord, PlatformTwitch, PlatformMinecraft, PlatformSteam}

// IsKnownPlatform reports whether platform has a dedicated sub-record
func IsKnownPlatform(platform string) bool {
	for _, p := range KnownPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
