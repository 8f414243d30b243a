package user

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheConfig sizes the identity cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// cachedIdentity maps a platform identity to the record that holds it
type cachedIdentity struct {
	Version  string
	UserID   string
	CachedAt time.Time
}

// identityCache remembers which record holds a platform:id pair. It stores
// record ids only, so a merge can never serve stale sub-records from it.
type identityCache struct {
	lru    *expirable.LRU[string, *cachedIdentity]
	hits   atomic.Int64
	misses atomic.Int64
}

func newIdentityCache(cfg CacheConfig) *identityCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &identityCache{
		lru: expirable.NewLRU[string, *cachedIdentity](cfg.Size, nil, cfg.TTL),
	}
}

func cacheKey(platform, platformID string) string {
	return platform + ":" + platformID
}

// Get returns the cached record id. Entries from an older schema are dropped.
func (c *identityCache) Get(platform, platformID string) (string, bool) {
	key := cacheKey(platform, platformID)
	entry, found := c.lru.Get(key)
	if !found || entry.Version != CacheSchemaVersion {
		if found {
			c.lru.Remove(key)
		}
		c.misses.Add(1)
		return "", false
	}
	c.hits.Add(1)
	return entry.UserID, true
}

func (c *identityCache) Set(platform, platformID, userID string) {
	c.lru.Add(cacheKey(platform, platformID), &cachedIdentity{
		Version:  CacheSchemaVersion,
		UserID:   userID,
		CachedAt: time.Now(),
	})
}

func (c *identityCache) Invalidate(platform, platformID string) {
	c.lru.Remove(cacheKey(platform, platformID))
}

// InvalidateUser drops every entry pointing at userID and reports how many
func (c *identityCache) InvalidateUser(userID string) int {
	removed := 0
	for _, key := range c.lru.Keys() {
		if entry, ok := c.lru.Peek(key); ok && entry.UserID == userID {
			c.lru.Remove(key)
			removed++
		}
	}
	return removed
}

func (c *identityCache) Clear() {
	c.lru.Purge()
}

func (c *identityCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
