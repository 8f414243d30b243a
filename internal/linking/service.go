// Package linking connects a caller's identities across platforms onto a
// single user record.
package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// LinkResult is what every LinkAccount call returns. Data holds the success
// message, Error the user-safe failure message.
type LinkResult struct {
	Success bool      `json:"success"`
	Data    string    `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
}

// LinkStatus reports what a record holds and which Discord links await confirmation.
// Pending is the link this record requested; Incoming is a link another record
// addressed to this record's Discord username.
type LinkStatus struct {
	UserID          string              `json:"user_id"`
	LinkedPlatforms []string            `json:"linked_platforms"`
	Pending         *domain.PendingLink `json:"pending,omitempty"`
	Incoming        *domain.PendingLink `json:"incoming,omitempty"`
}

// Service defines the linking service interface
type Service interface {
	// LinkAccount links target onto caller. It never returns an error; every
	// failure is reported through the result.
	LinkAccount(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) LinkResult

	// Status returns the linked platforms of u, its own unexpired pending Discord
	// link and the newest unexpired link addressed to its Discord username
	Status(ctx context.Context, u *domain.User) (*LinkStatus, error)

	// CleanupExpired removes pending links whose confirmation window has closed
	CleanupExpired(ctx context.Context) (int64, error)
}

// Config tunes the linker
type Config struct {
	CallTimeout time.Duration
	PendingTTL  time.Duration
	Now         func() time.Time
}

type service struct {
	users    UserRepository
	pending  Repository
	verifier Verifier
	bus      event.Bus
	cfg      Config
}

// NewService creates a new linking service
func NewService(users UserRepository, pending Repository, verifier Verifier, bus event.Bus, cfg Config) Service {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = domain.DefaultPendingLinkTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if bus == nil {
		bus = event.NopBus{}
	}
	return &service{
		users:    users,
		pending:  pending,
		verifier: verifier,
		bus:      bus,
		cfg:      cfg,
	}
}

func (s *service) LinkAccount(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) LinkResult {
	log := logger.FromContext(ctx)

	target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
	target.Username = strings.TrimSpace(target.Username)
	origin.Platform = strings.ToLower(strings.TrimSpace(origin.Platform))

	log.Info(LogMsgLinkStarted, "origin_platform", origin.Platform, "target_platform", target.Platform, "user_id", callerID(caller))

	message, err := s.dispatch(ctx, origin, target, caller)

	outcome := "success"
	var result LinkResult
	if err != nil {
		le := classify(err)
		outcome = string(le.Kind)
		result = LinkResult{Success: false, Error: le.Message, Kind: le.Kind}
		if le.Kind == KindInternal || le.Kind == KindLinkFailed || le.Kind == KindTimeout {
			log.Error(LogMsgLinkFailed, "target_platform", target.Platform, "kind", le.Kind, "error", le.Err)
		} else {
			log.Info(LogMsgLinkFailed, "target_platform", target.Platform, "kind", le.Kind)
		}
	} else {
		result = LinkResult{Success: true, Data: message}
		log.Info(LogMsgLinkSucceeded, "target_platform", target.Platform, "user_id", caller.ID)
	}

	s.publish(ctx, event.NewLinkAttemptedEvent(callerID(caller), origin.Platform, target.Platform, outcome))
	return result
}

func (s *service) dispatch(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) (string, error) {
	if caller == nil || caller.ID == "" {
		return "", errors.New("link requested without a caller record")
	}
	if target.Platform == "" {
		return "", fmt.Errorf("%w: empty target platform", domain.ErrInvalidPlatform)
	}
	if target.Username == "" {
		return "", newLinkError(KindInvalidUsername, fmt.Sprintf(ErrMsgInvalidUsername, s.label(target.Platform)), domain.ErrInvalidInput)
	}

	switch target.Platform {
	case domain.PlatformMinecraft:
		return s.linkMinecraft(ctx, target, caller)
	case domain.PlatformTwitch:
		return s.linkTwitch(ctx, origin, target, caller)
	case domain.PlatformDiscord:
		return s.linkDiscord(ctx, origin, target, caller)
	case domain.PlatformSteam:
		if s.verifier.Supports(domain.PlatformSteam) {
			return s.linkSteam(ctx, target, caller)
		}
		return s.linkGeneric(ctx, target, caller)
	default:
		return s.linkGeneric(ctx, target, caller)
	}
}

func (s *service) Status(ctx context.Context, u *domain.User) (*LinkStatus, error) {
	status := &LinkStatus{UserID: u.ID, LinkedPlatforms: u.LinkedPlatforms()}
	if status.LinkedPlatforms == nil {
		status.LinkedPlatforms = []string{}
	}

	now := s.cfg.Now()
	cctx, cancel := s.callContext(ctx)
	link, err := s.pending.Get(cctx, u.ID, domain.PlatformDiscord)
	cancel()
	switch {
	case errors.Is(err, domain.ErrPendingLinkNotFound):
	case err != nil:
		return nil, err
	case !link.IsExpired(now):
		status.Pending = link
	}

	if u.Discord == nil || u.Discord.Username == "" {
		return status, nil
	}
	cctx, cancel = s.callContext(ctx)
	defer cancel()
	incoming, err := s.pending.FindByTarget(cctx, domain.PlatformDiscord, u.Discord.Username, now)
	switch {
	case errors.Is(err, domain.ErrPendingLinkNotFound):
	case err != nil:
		return nil, err
	case incoming.HolderUserID != u.ID:
		status.Incoming = incoming
	}
	return status, nil
}

func (s *service) CleanupExpired(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	removed, err := s.pending.CleanupExpired(ctx, s.cfg.Now())
	if err != nil {
		log.Error(LogMsgCleanupFailed, "error", err)
		return 0, err
	}
	if removed > 0 {
		log.Info(LogMsgCleanupCompleted, "removed", removed)
		s.publish(ctx, event.NewPendingLinksSweptEvent(removed))
	}
	return removed, nil
}

// callContext bounds one collaborator call
func (s *service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.CallTimeout)
}

func (s *service) verify(ctx context.Context, platform, username string) (domain.Account, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()

	account, err := s.verifier.Verify(cctx, platform, username)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, newLinkError(KindInvalidUsername, fmt.Sprintf(ErrMsgInvalidUsername, s.label(platform)), err)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) findHolder(ctx context.Context, platform, platformID string) (*domain.User, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.users.GetByPlatformField(cctx, platform, domain.FieldID, platformID)
}

func (s *service) update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.users.Update(cctx, id, patch)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// label renders a platform key for messages, e.g. "minecraft" -> "Minecraft"
func (s *service) label(platform string) string {
	return cases.Title(language.English).String(platform)
}

func callerID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
