package verifier

import "time"

// Upstream endpoints
const (
	TwitchTokenURL = "https://id.twitch.tv/oauth2/token"
	TwitchHelixURL = "https://api.twitch.tv/helix"
	MojangAPIURL   = "https://api.mojang.com"
	GeyserAPIURL   = "https://api.geysermc.org"
	SteamWebAPIURL = "https://api.steampowered.com"
)

// HTTP client defaults
const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultRetryCount     = 2
	DefaultRetryWait      = 200 * time.Millisecond
	DefaultRetryMaxWait   = 2 * time.Second
	UserAgent             = "bee-name-generator/1.0"
)

// Twitch token handling
const (
	// TokenExpiryMargin refreshes the app token this long before Twitch expires it
	TokenExpiryMargin = time.Minute
)

// Steam identifiers
const (
	// SteamID64Base is the SteamID64 of account id 0 in the public universe
	SteamID64Base uint64 = 76561197960265728
	// SteamVanityNoMatch is ResolveVanityURL's success code for unknown names
	SteamVanityNoMatch = 42
)

// FloodgatePrefix is prepended to the hex XUID to form a Bedrock player's UUID
const FloodgatePrefix = "00000000-0000-0000-"

// Log messages
const (
	LogMsgLookupFailed      = "Platform lookup failed"
	LogMsgLookupNotFound    = "Platform account not found"
	LogMsgTwitchTokenFailed = "Failed to obtain Twitch app token"
)

// Error contexts
const (
	ErrContextLookup     = "%s lookup failed: %w"
	ErrContextStatusCode = "%s lookup returned status %d"
)
