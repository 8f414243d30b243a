// Package redis keeps pending links in Redis with native key expiry,
// selected with PENDING_STORE=redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

const keyPrefix = "pending_link"

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// Open creates a new Redis client and pings it to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &Client{Client: c}, nil
}

// PendingLinkRepository implements repository.PendingLink. Holder existence
// is not checked; a link whose holder is gone simply never confirms.
type PendingLinkRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewPendingLinkRepository creates a new pending link repository
func NewPendingLinkRepository(c *Client) *PendingLinkRepository {
	return &PendingLinkRepository{client: c.Client, now: time.Now}
}

func linkKey(holderUserID, targetPlatform string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, holderUserID, targetPlatform)
}

// targetKey points at the holder of the newest link addressed to a username
func targetKey(targetPlatform, targetUsername string) string {
	return fmt.Sprintf("%s:target:%s:%s", keyPrefix, targetPlatform, strings.ToLower(targetUsername))
}

// Save stores the link with a TTL matching ExpiresAt. A zero ExpiresAt never expires.
func (r *PendingLinkRepository) Save(ctx context.Context, link *domain.PendingLink) error {
	var ttl time.Duration
	if !link.ExpiresAt.IsZero() {
		ttl = link.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, link.HolderUserID, link.TargetPlatform)
		}
	}

	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = r.now().UTC()
	}

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal pending link: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, linkKey(link.HolderUserID, link.TargetPlatform), data, ttl)
		pipe.Set(ctx, targetKey(link.TargetPlatform, link.TargetUsername), link.HolderUserID, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save pending link to redis: %w", err)
	}
	return nil
}

func (r *PendingLinkRepository) Get(ctx context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error) {
	data, err := r.client.Get(ctx, linkKey(holderUserID, targetPlatform)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPendingLinkNotFound
		}
		return nil, fmt.Errorf("failed to get pending link from redis: %w", err)
	}

	var link domain.PendingLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending link: %w", err)
	}
	return &link, nil
}

// FindByTarget follows the target index. An index entry left behind by a
// replaced or deleted link resolves to not found.
func (r *PendingLinkRepository) FindByTarget(ctx context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error) {
	holderUserID, err := r.client.Get(ctx, targetKey(targetPlatform, targetUsername)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPendingLinkNotFound
		}
		return nil, fmt.Errorf("failed to get pending link target from redis: %w", err)
	}

	link, err := r.Get(ctx, holderUserID, targetPlatform)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(link.TargetUsername, targetUsername) || link.IsExpired(now) {
		return nil, domain.ErrPendingLinkNotFound
	}
	return link, nil
}

func (r *PendingLinkRepository) Delete(ctx context.Context, holderUserID, targetPlatform string) error {
	if err := r.client.Del(ctx, linkKey(holderUserID, targetPlatform)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending link from redis: %w", err)
	}
	return nil
}

// CleanupExpired is a no-op; Redis evicts expired keys itself.
func (r *PendingLinkRepository) CleanupExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
