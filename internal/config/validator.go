package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks enum-like settings and value ranges
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}

	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q, %q or %q, got %q", StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory, c.StoreDriver))
	}

	switch c.PendingStore {
	case PendingStoreDefault, PendingStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("PENDING_STORE must be %q or %q, got %q", PendingStoreDefault, PendingStoreRedis, c.PendingStore))
	}

	if c.LinkCallTimeout <= 0 {
		errs = append(errs, errors.New("LINK_CALL_TIMEOUT must be positive"))
	}
	if c.PendingLinkTTL <= 0 {
		errs = append(errs, errors.New("PENDING_LINK_TTL must be positive"))
	}

	if c.RatePerSecond > 0 && c.RateBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set"))
	}

	if (c.TwitchClientID == "") != (c.TwitchClientSecret == "") {
		errs = append(errs, errors.New("TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET must be set together"))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal configuration issues worth logging at startup
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.TwitchClientID == "" {
		warnings = append(warnings, "TWITCH_CLIENT_ID not set - twitch usernames cannot be verified")
	}
	if c.SteamAPIKey == "" {
		warnings = append(warnings, "STEAM_API_KEY not set - steam accounts are linked without verification")
	}
	if c.RatePerSecond <= 0 {
		warnings = append(warnings, "RATE_LIMIT_RPS is 0 - per-client rate limiting is disabled")
	}
	if strings.EqualFold(c.Environment, "prod") && !strings.EqualFold(c.LogFormat, "json") {
		warnings = append(warnings, "LOG_FORMAT should be json in production")
	}

	return warnings
}
