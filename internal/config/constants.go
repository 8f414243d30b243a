package config

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Pending link stores
const (
	PendingStoreDefault = "store"
	PendingStoreRedis   = "redis"
)

// Insecure example values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
