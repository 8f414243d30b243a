package user

import "time"

// CacheSchemaVersion is the current version of the cache schema.
// Increment this when the cached data structure changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cache entries
const DefaultCacheSize = 1000

// DefaultCacheTTL is the default time-to-live for cache entries
const DefaultCacheTTL = 5 * time.Minute

// Log messages
const (
	LogMsgUserCreated        = "User record created"
	LogMsgHandleRefreshed    = "Platform handle refreshed"
	LogMsgHandleRefreshFail  = "Failed to refresh platform handle"
	LogMsgStaleCacheEntry    = "Cached identity pointed at a missing record"
	LogMsgMergedEntriesEvict = "Evicted cache entries for merged record"
)

// Error contexts
const (
	ErrContextLookup = "failed to look up %s user: %w"
	ErrContextCreate = "failed to create %s user: %w"
)
