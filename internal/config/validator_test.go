package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            8080,
		StoreDriver:     StoreDriverPostgres,
		PendingStore:    PendingStoreDefault,
		LinkCallTimeout: 5 * time.Second,
		PendingLinkTTL:  time.Hour,
		RatePerSecond:   10,
		RateBurst:       40,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = 70000
		assert.ErrorContains(t, cfg.Validate(), "PORT")
	})

	t.Run("unknown pending store", func(t *testing.T) {
		cfg := validConfig()
		cfg.PendingStore = "memcached"
		assert.ErrorContains(t, cfg.Validate(), "PENDING_STORE")
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.LinkCallTimeout = 0
		assert.ErrorContains(t, cfg.Validate(), "LINK_CALL_TIMEOUT")
	})

	t.Run("rate limit without burst", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateBurst = 0
		assert.ErrorContains(t, cfg.Validate(), "RATE_LIMIT_BURST")
	})

	t.Run("half configured twitch credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.TwitchClientID = "id"
		assert.ErrorContains(t, cfg.Validate(), "TWITCH_CLIENT_SECRET")
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := validConfig()
		cfg.StoreDriver = "sqlite"
		cfg.PendingLinkTTL = -time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_DRIVER")
		assert.Contains(t, err.Error(), "PENDING_LINK_TTL")
	})
}

func TestWarnings_InsecureDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.DBPassword = ExampleDBPassword
	cfg.APIKey = ExampleAPIKey
	cfg.TwitchClientID = "id"
	cfg.SteamAPIKey = "key"

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "DB_PASSWORD")
	assert.Contains(t, warnings[1], "API_KEY")
}
