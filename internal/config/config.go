package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the API server configuration
type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	RatePerSecond  float64  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateBurst      int      `env:"RATE_LIMIT_BURST" envDefault:"40"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir      string `env:"LOG_DIR"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"bee-name-generator"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// StoreDriver selects the user and bee name store: postgres, mongo or memory.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	// PendingStore selects where pending links live: the user store or redis.
	PendingStore string `env:"PENDING_STORE" envDefault:"store"`

	DBUser      string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost      string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string        `env:"DB_PORT" envDefault:"5432"`
	DBName      string        `env:"DB_NAME" envDefault:"beenamegenerator"`
	DBMaxConns  int           `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMaxIdle   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxLife   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	AutoMigrate bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DB" envDefault:"BeeNameGenerator"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	TwitchClientID     string `env:"TWITCH_CLIENT_ID"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET"`
	SteamAPIKey        string `env:"STEAM_API_KEY"`

	LinkCallTimeout    time.Duration `env:"LINK_CALL_TIMEOUT" envDefault:"5s"`
	PendingLinkTTL     time.Duration `env:"PENDING_LINK_TTL" envDefault:"1h"`
	PendingCleanupTick time.Duration `env:"PENDING_CLEANUP_INTERVAL" envDefault:"10m"`

	UserCacheSize       int           `env:"USER_CACHE_SIZE" envDefault:"1000"`
	UserCacheTTL        time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	WorkerPoolSize      int           `env:"WORKER_POOL_SIZE" envDefault:"2"`
	EventDeadLetterPath string        `env:"EVENT_DEADLETTER_PATH" envDefault:"event_deadletter.jsonl"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is fine; real env vars may be set
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// UsesMongo reports whether MongoDB backs the user store
func (c *Config) UsesMongo() bool {
	return c.StoreDriver == StoreDriverMongo
}

// UsesRedisPending reports whether pending links are kept in redis
func (c *Config) UsesRedisPending() bool {
	return c.PendingStore == PendingStoreRedis
}

// DiscordConfig holds the Discord bot configuration
type DiscordConfig struct {
	Token       string        `env:"DISCORD_TOKEN,required"`
	AppID       string        `env:"DISCORD_APP_ID,required"`
	GuildID     string        `env:"DISCORD_GUILD_ID"`
	AdminIDs    []string      `env:"DISCORD_ADMIN_IDS" envSeparator:","`
	ChannelID   string        `env:"DISCORD_CHANNEL_ID"` // receives new suggestions when set
	Cooldown    time.Duration `env:"DISCORD_COMMAND_COOLDOWN" envDefault:"3s"`
	HealthPort  int           `env:"DISCORD_HEALTH_PORT" envDefault:"8081"`
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:8080"`
	APIKey      string        `env:"API_KEY"`
	ForceUpdate bool          `env:"DISCORD_FORCE_COMMAND_UPDATE" envDefault:"false"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadDiscord loads the Discord bot configuration
func LoadDiscord() (*DiscordConfig, error) {
	_ = godotenv.Load()

	cfg := &DiscordConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid discord configuration: %w", err)
	}
	return cfg, nil
}

// TwitchBotConfig holds the Twitch chat bot configuration
type TwitchBotConfig struct {
	Username  string        `env:"TWITCH_BOT_USERNAME,required"`
	OAuth     string        `env:"TWITCH_BOT_OAUTH,required"`
	Channels  []string      `env:"TWITCH_CHANNELS,required" envSeparator:","`
	Prefix    string        `env:"TWITCH_COMMAND_PREFIX" envDefault:"!"`
	Cooldown  time.Duration `env:"TWITCH_COMMAND_COOLDOWN" envDefault:"5s"`
	APIURL    string        `env:"API_URL" envDefault:"http://localhost:8080"`
	APIKey    string        `env:"API_KEY"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadTwitchBot loads the Twitch chat bot configuration
func LoadTwitchBot() (*TwitchBotConfig, error) {
	_ = godotenv.Load()

	cfg := &TwitchBotConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid twitch bot configuration: %w", err)
	}
	return cfg, nil
}
