package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/verifier"
)

func (s *service) linkMinecraft(ctx context.Context, target domain.PlatformInfo, caller *domain.User) (string, error) {
	if err := s.linkVerified(ctx, domain.PlatformMinecraft, target.Username, caller); err != nil {
		return "", err
	}
	edition := EditionLabelJava
	if verifier.IsBedrockUsername(target.Username) {
		edition = EditionLabelBedrock
	}
	return fmt.Sprintf(MsgMinecraftLinked, edition), nil
}

func (s *service) linkSteam(ctx context.Context, target domain.PlatformInfo, caller *domain.User) (string, error) {
	if err := s.linkVerified(ctx, domain.PlatformSteam, target.Username, caller); err != nil {
		return "", err
	}
	return MsgSteamLinked, nil
}

// linkVerified is the single-phase flow: verify, refuse identities held by
// another record, then write the verified sub-record onto the caller.
func (s *service) linkVerified(ctx context.Context, platform, username string, caller *domain.User) error {
	account, err := s.verify(ctx, platform, username)
	if err != nil {
		return err
	}

	holder, err := s.findHolder(ctx, platform, account.PlatformID())
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
	case err != nil:
		return err
	case holder.ID != caller.ID:
		return newLinkError(KindAlreadyLinked, fmt.Sprintf(ErrMsgAlreadyLinked, s.label(platform)), nil)
	default:
		return nil
	}

	patch, err := domain.PatchForAccount(account)
	if err != nil {
		return err
	}
	_, err = s.update(ctx, caller.ID, patch)
	return err
}

// linkTwitch confirms a pending link created from Twitch chat and merges the
// Twitch-side record into the caller.
func (s *service) linkTwitch(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) (string, error) {
	log := logger.FromContext(ctx)
	noPending := newLinkError(KindNoPendingLink, fmt.Sprintf(ErrMsgNoPendingLink, origin.Platform), nil)
	// pending links are only ever addressed to Discord identities
	if origin.Platform != domain.PlatformDiscord {
		return "", noPending
	}

	account, err := s.verify(ctx, domain.PlatformTwitch, target.Username)
	if err != nil {
		return "", err
	}
	twitch, ok := account.(*domain.TwitchAccount)
	if !ok {
		return "", fmt.Errorf("twitch verifier returned %T", account)
	}

	holder, err := s.findHolder(ctx, domain.PlatformTwitch, twitch.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", noPending
	}
	if err != nil {
		return "", err
	}

	cctx, cancel := s.callContext(ctx)
	link, err := s.pending.Get(cctx, holder.ID, domain.PlatformDiscord)
	cancel()
	if errors.Is(err, domain.ErrPendingLinkNotFound) {
		return "", noPending
	}
	if err != nil {
		return "", err
	}
	if link.IsExpired(s.cfg.Now()) || !strings.EqualFold(link.TargetUsername, origin.Username) {
		return "", noPending
	}

	if _, err := s.update(ctx, caller.ID, mergePatch(caller, holder, twitch)); err != nil {
		return "", err
	}

	if holder.ID != caller.ID {
		cctx, cancel := s.callContext(ctx)
		_, err := s.users.Delete(cctx, holder.ID)
		cancel()
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			log.Error(LogMsgHolderDeleteFail, "user_id", holder.ID, "error", err)
			return "", err
		}
		log.Info(LogMsgAccountsMerged, "survivor_id", caller.ID, "removed_id", holder.ID)
		s.publish(ctx, event.NewLinkMergedEvent(caller.ID, holder.ID))
	}

	cctx, cancel = s.callContext(ctx)
	if err := s.pending.Delete(cctx, holder.ID, domain.PlatformDiscord); err != nil {
		log.Warn(LogMsgPendingDeleteFail, "holder_user_id", holder.ID, "error", err)
	}
	cancel()

	return MsgTwitchLinked, nil
}

// mergePatch folds holder into caller. The caller wins on every key, except
// twitch which always comes from the fresh verification.
func mergePatch(caller, holder *domain.User, twitch *domain.TwitchAccount) domain.UserPatch {
	patch := domain.UserPatch{Twitch: twitch}
	if caller.Discord == nil && holder.Discord != nil {
		patch.Discord = holder.Discord
	}
	if caller.Minecraft == nil && holder.Minecraft != nil {
		patch.Minecraft = holder.Minecraft
	}
	if caller.Steam == nil && holder.Steam != nil {
		patch.Steam = holder.Steam
	}
	for platform, username := range holder.Accounts {
		if _, taken := caller.Accounts[platform]; taken {
			continue
		}
		if patch.Accounts == nil {
			patch.Accounts = make(map[string]string)
		}
		patch.Accounts[platform] = username
	}
	return patch
}

// linkDiscord stores a pending link that the Discord bot later confirms
func (s *service) linkDiscord(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) (string, error) {
	now := s.cfg.Now()
	link := &domain.PendingLink{
		HolderUserID:   caller.ID,
		OriginPlatform: origin.Platform,
		OriginID:       origin.ID,
		OriginUsername: origin.Username,
		TargetPlatform: domain.PlatformDiscord,
		TargetUsername: target.Username,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.cfg.PendingTTL),
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()
	if err := s.pending.Save(cctx, link); err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info(LogMsgPendingCreated, "holder_user_id", caller.ID, "expires_at", link.ExpiresAt)
	s.publish(ctx, event.NewLinkPendingCreatedEvent(caller.ID, origin.Username, domain.PlatformDiscord, target.Username))
	return fmt.Sprintf(MsgDiscordPending, origin.Username), nil
}

// linkGeneric records an unverified handle for platforms without a verifier
func (s *service) linkGeneric(ctx context.Context, target domain.PlatformInfo, caller *domain.User) (string, error) {
	patch := domain.UserPatch{Accounts: map[string]string{target.Platform: target.Username}}
	if _, err := s.update(ctx, caller.ID, patch); err != nil {
		return "", err
	}
	return fmt.Sprintf(MsgGenericLinked, s.label(target.Platform)), nil
}
