// Package user resolves platform identities to user records, creating them
// lazily the first time an identity is seen.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/repository"
)

// Service defines the user record operations used by the API and the linker
type Service interface {
	// GetOrCreate returns the record holding identity, creating one that holds
	// only that platform's sub-record when none exists
	GetOrCreate(ctx context.Context, identity domain.PlatformInfo) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByPlatformID returns domain.ErrUserNotFound when nobody holds the identity
	FindByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error)
	// LinkedPlatforms lists the platforms on the record holding the identity
	LinkedPlatforms(ctx context.Context, platform, platformID string) ([]string, error)
	GetCacheStats() CacheStats
}

type service struct {
	repo  repository.User
	cache *identityCache
}

// NewService creates a new user service
func NewService(repo repository.User, cacheConfig CacheConfig) *service {
	return &service{
		repo:  repo,
		cache: newIdentityCache(cacheConfig),
	}
}

// RegisterHandlers subscribes the cache to merge events so it never points at a
// deleted record
func (s *service) RegisterHandlers(bus event.Bus) {
	bus.Subscribe(event.LinkMerged, s.handleMerged)
}

func (s *service) handleMerged(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.LinkMergedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	if n := s.cache.InvalidateUser(payload.RemovedID); n > 0 {
		logger.FromContext(ctx).Debug(LogMsgMergedEntriesEvict, "user_id", payload.RemovedID, "entries", n)
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// lookupField picks the field an identity is matched on. Known platforms match
// by external id when one is supplied, otherwise by handle.
func lookupField(identity domain.PlatformInfo) (string, string) {
	if !domain.IsKnownPlatform(identity.Platform) {
		return domain.FieldUsername, identity.Username
	}
	if identity.ID != "" {
		return domain.FieldID, identity.ID
	}
	if identity.Platform == domain.PlatformTwitch {
		return domain.FieldLogin, identity.Username
	}
	return domain.FieldUsername, identity.Username
}

func (s *service) FindByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error) {
	return s.find(ctx, domain.PlatformInfo{Platform: platform, ID: platformID, Username: platformID})
}

func (s *service) find(ctx context.Context, identity domain.PlatformInfo) (*domain.User, error) {
	field, value := lookupField(identity)
	if value == "" {
		return nil, fmt.Errorf("%w: identity has no id or username", domain.ErrInvalidInput)
	}
	key := field + "=" + value

	if userID, ok := s.cache.Get(identity.Platform, key); ok {
		u, err := s.repo.GetByID(ctx, userID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		logger.FromContext(ctx).Debug(LogMsgStaleCacheEntry, "platform", identity.Platform, "user_id", userID)
		s.cache.Invalidate(identity.Platform, key)
	}

	u, err := s.repo.GetByPlatformField(ctx, identity.Platform, field, value)
	if err != nil {
		return nil, err
	}
	s.cache.Set(identity.Platform, key, u.ID)
	return u, nil
}

func (s *service) GetOrCreate(ctx context.Context, identity domain.PlatformInfo) (*domain.User, error) {
	log := logger.FromContext(ctx)

	u, err := s.find(ctx, identity)
	if err == nil {
		return s.refreshHandle(ctx, u, identity), nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf(ErrContextLookup, identity.Platform, err)
	}

	u, err = s.repo.Create(ctx, initialPatch(identity))
	if err != nil {
		return nil, fmt.Errorf(ErrContextCreate, identity.Platform, err)
	}

	field, value := lookupField(identity)
	s.cache.Set(identity.Platform, field+"="+value, u.ID)
	log.Info(LogMsgUserCreated, "user_id", u.ID, "platform", identity.Platform)
	return u, nil
}

// initialPatch builds the single sub-record a lazily created record starts with
func initialPatch(identity domain.PlatformInfo) domain.UserPatch {
	switch identity.Platform {
	case domain.PlatformDiscord:
		return domain.UserPatch{Discord: &domain.DiscordAccount{ID: identity.ID, Username: identity.Username}}
	case domain.PlatformTwitch:
		return domain.UserPatch{Twitch: &domain.TwitchAccount{ID: identity.ID, Login: identity.Username, DisplayName: identity.Username}}
	case domain.PlatformMinecraft:
		return domain.UserPatch{Minecraft: &domain.MinecraftAccount{ID: identity.ID, Username: identity.Username}}
	case domain.PlatformSteam:
		return domain.UserPatch{Steam: &domain.SteamAccount{ID: identity.ID, Name: identity.Username}}
	default:
		return domain.UserPatch{Accounts: map[string]string{identity.Platform: identity.Username}}
	}
}

// refreshHandle keeps Discord and Twitch handles current when a caller renamed.
// A failed refresh is logged and the stale record returned.
func (s *service) refreshHandle(ctx context.Context, u *domain.User, identity domain.PlatformInfo) *domain.User {
	if identity.ID == "" || identity.Username == "" {
		return u
	}

	var patch domain.UserPatch
	switch identity.Platform {
	case domain.PlatformDiscord:
		if u.Discord == nil || u.Discord.Username == identity.Username {
			return u
		}
		d := *u.Discord
		d.Username = identity.Username
		patch.Discord = &d
	case domain.PlatformTwitch:
		if u.Twitch == nil || u.Twitch.Login == identity.Username {
			return u
		}
		tw := *u.Twitch
		tw.Login = identity.Username
		patch.Twitch = &tw
	default:
		return u
	}

	updated, err := s.repo.Update(ctx, u.ID, patch)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgHandleRefreshFail, "user_id", u.ID, "platform", identity.Platform, "error", err)
		return u
	}
	logger.FromContext(ctx).Debug(LogMsgHandleRefreshed, "user_id", u.ID, "platform", identity.Platform)
	return updated
}

func (s *service) LinkedPlatforms(ctx context.Context, platform, platformID string) ([]string, error) {
	u, err := s.FindByPlatformID(ctx, platform, platformID)
	if err != nil {
		return nil, err
	}
	return u.LinkedPlatforms(), nil
}

func (s *service) GetCacheStats() CacheStats {
	return s.cache.GetStats()
}
