package linking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/memory"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/event"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/verifier"
)

var (
	steve    = &domain.MinecraftAccount{ID: "069a79f4-44e9-4726-a5be-fca90e38aaf5", Username: "Steve", Edition: domain.MinecraftEditionJava}
	dotSteve = &domain.MinecraftAccount{ID: "00000000-0000-0000-0009-01f000000001", Username: ".Steve", Edition: domain.MinecraftEditionBedrock, XUID: "2535"}
	buzz     = &domain.TwitchAccount{ID: "tw-1", Login: "buzz", DisplayName: "Buzz"}
)

type fixture struct {
	store  *memory.Store
	svc    Service
	now    time.Time
	events *recorder
}

// recorder captures published events
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func lookupFrom(accounts map[string]domain.Account) verifier.VerifierFunc {
	return func(_ context.Context, username string) (domain.Account, error) {
		if a, ok := accounts[username]; ok {
			return a, nil
		}
		return nil, domain.ErrAccountNotFound
	}
}

func newFixture(t *testing.T, withSteam bool) *fixture {
	t.Helper()

	f := &fixture{
		store:  memory.NewStore(),
		now:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		events: &recorder{},
	}
	clock := func() time.Time { return f.now }
	f.store.SetClock(clock)

	reg := verifier.NewRegistry()
	reg.Register(domain.PlatformMinecraft, lookupFrom(map[string]domain.Account{"Steve": steve, ".Steve": dotSteve}))
	reg.Register(domain.PlatformTwitch, lookupFrom(map[string]domain.Account{"buzz": buzz}))
	if withSteam {
		reg.Register(domain.PlatformSteam, lookupFrom(map[string]domain.Account{
			"gaben": &domain.SteamAccount{ID: "76561197960287930", Name: "Rabscuttle"},
		}))
	}

	bus := event.NewMemoryBus()
	for _, typ := range []event.Type{event.LinkAttempted, event.LinkPendingCreated, event.LinkMerged, event.PendingLinksSwept} {
		bus.Subscribe(typ, f.events.handle)
	}

	f.svc = NewService(f.store.Users(), f.store.PendingLinks(), reg, bus, Config{
		CallTimeout: time.Second,
		PendingTTL:  time.Hour,
		Now:         clock,
	})
	return f
}

func (f *fixture) createUser(t *testing.T, patch domain.UserPatch) *domain.User {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), patch)
	require.NoError(t, err)
	return u
}

func (f *fixture) reload(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func discordCaller(id, username string) domain.UserPatch {
	return domain.UserPatch{Discord: &domain.DiscordAccount{ID: id, Username: username}}
}

func discordOrigin(username, id string) domain.PlatformInfo {
	return domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: username, ID: id}
}

// ============================================================================
// Minecraft
// ============================================================================

func TestLinkMinecraft_Unclaimed(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "Steve"}, caller)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Your Minecraft Java account has been linked", res.Data)
	updated := f.reload(t, caller.ID)
	require.NotNil(t, updated.Minecraft)
	assert.Equal(t, steve.ID, updated.Minecraft.ID)
	assert.Equal(t, "d-1", updated.Discord.ID)
}

func TestLinkMinecraft_BedrockMessage(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: ".Steve"}, caller)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Your Minecraft Bedrock account has been linked", res.Data)
	assert.Equal(t, dotSteve.ID, f.reload(t, caller.ID).Minecraft.ID)
}

func TestLinkMinecraft_IdempotentRelink(t *testing.T) {
	users := new(MockUserRepository)
	verify := new(MockVerifier)
	svc := NewService(users, new(MockRepository), verify, nil, Config{})

	caller := &domain.User{ID: "u1", Minecraft: steve}
	verify.On("Verify", mock.Anything, domain.PlatformMinecraft, "Steve").Return(steve, nil)
	users.On("GetByPlatformField", mock.Anything, domain.PlatformMinecraft, domain.FieldID, steve.ID).Return(caller, nil)

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "Steve"}, caller)

	assert.True(t, res.Success)
	assert.Equal(t, "Your Minecraft Java account has been linked", res.Data)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestLinkMinecraft_AlreadyLinkedElsewhere(t *testing.T) {
	f := newFixture(t, false)
	other := f.createUser(t, domain.UserPatch{Minecraft: steve, Accounts: map[string]string{"youtube": "other"}})
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "Steve"}, caller)

	assert.False(t, res.Success)
	assert.Equal(t, KindAlreadyLinked, res.Kind)
	assert.Equal(t, "This Minecraft account has already been linked", res.Error)
	assert.Equal(t, other, f.reload(t, other.ID))
	assert.Nil(t, f.reload(t, caller.ID).Minecraft)
}

func TestLinkMinecraft_InvalidUsername(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "nobody_here"}, caller)

	assert.False(t, res.Success)
	assert.Equal(t, KindInvalidUsername, res.Kind)
	assert.Equal(t, "Invalid Minecraft username", res.Error)
	assert.Equal(t, caller, f.reload(t, caller.ID))
}

// ============================================================================
// Discord -> Twitch two-phase link
// ============================================================================

func TestLinkDiscordThenTwitch_Merges(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	twitchSide := f.createUser(t, domain.UserPatch{
		Twitch:   &domain.TwitchAccount{ID: "tw-1", Login: "buzz"},
		Steam:    &domain.SteamAccount{ID: "765", Name: "buzzsteam"},
		Accounts: map[string]string{"youtube": "buzztube", "kick": "buzzkick"},
	})
	twitchOrigin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}

	res := f.svc.LinkAccount(ctx, twitchOrigin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "BeeKeeper"}, twitchSide)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Pending confirmation of your Discord account, please confirm the account link using our Discord Bot: /link twitch buzz", res.Data)
	assert.Equal(t, 1, f.store.PendingLinks().Len())

	discordSide := f.createUser(t, domain.UserPatch{
		Discord:  &domain.DiscordAccount{ID: "d-1", Username: "beekeeper"},
		Accounts: map[string]string{"youtube": "keepertube"},
	})

	res = f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, discordSide)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Your Twitch account has been linked", res.Data)

	assert.Equal(t, 1, f.store.Users().Len())
	assert.Equal(t, 0, f.store.PendingLinks().Len())

	survivor := f.reload(t, discordSide.ID)
	assert.Equal(t, "d-1", survivor.Discord.ID)
	assert.Equal(t, buzz, survivor.Twitch)
	assert.Equal(t, "765", survivor.Steam.ID)
	assert.Equal(t, map[string]string{"youtube": "keepertube", "kick": "buzzkick"}, survivor.Accounts)

	_, err := f.store.Users().GetByID(ctx, twitchSide.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	merged := f.events.ofType(event.LinkMerged)
	require.Len(t, merged, 1)
	payload, err := event.DecodePayload[event.LinkMergedPayloadV1](merged[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, discordSide.ID, payload.SurvivorID)
	assert.Equal(t, twitchSide.ID, payload.RemovedID)
	assert.Len(t, f.events.ofType(event.LinkPendingCreated), 1)

	res = f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, survivor)
	assert.Equal(t, KindNoPendingLink, res.Kind)
}

func TestLinkDiscord_NewerRequestReplacesOlder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}

	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "first"}, holder).Success)
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "second"}, holder).Success)

	assert.Equal(t, 1, f.store.PendingLinks().Len())
	link, err := f.store.PendingLinks().Get(ctx, holder.ID, domain.PlatformDiscord)
	require.NoError(t, err)
	assert.Equal(t, "second", link.TargetUsername)
	assert.Equal(t, f.now.Add(time.Hour), link.ExpiresAt)
}

func TestLinkTwitch_NoPendingLink(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.False(t, res.Success)
	assert.Equal(t, KindNoPendingLink, res.Kind)
	assert.Equal(t, "There is no link pending for this Twitch account, please link your discord account in Twitch chat:\n```!link discord username```", res.Error)
	assert.Equal(t, holder, f.reload(t, holder.ID))
	assert.Equal(t, caller, f.reload(t, caller.ID))
	assert.Equal(t, 2, f.store.Users().Len())
}

func TestLinkTwitch_OnlyDiscordCanConfirm(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "buzz"}, holder).Success)

	caller := f.createUser(t, domain.UserPatch{Accounts: map[string]string{"kick": "buzz"}})
	kickOrigin := domain.PlatformInfo{Platform: "kick", Username: "buzz"}
	res := f.svc.LinkAccount(ctx, kickOrigin, domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.Equal(t, KindNoPendingLink, res.Kind)
	assert.Equal(t, 1, f.store.PendingLinks().Len())
	assert.Equal(t, 2, f.store.Users().Len())
}

func TestLinkTwitch_NoHolderRecord(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.Equal(t, KindNoPendingLink, res.Kind)
	assert.Nil(t, f.reload(t, caller.ID).Twitch)
}

func TestLinkTwitch_PendingNamesDifferentOrigin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "someone_else"}, holder).Success)

	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))
	res := f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.Equal(t, KindNoPendingLink, res.Kind)
	assert.Equal(t, 2, f.store.Users().Len())
	assert.Equal(t, 1, f.store.PendingLinks().Len())
	assert.Nil(t, f.reload(t, caller.ID).Twitch)
}

func TestLinkTwitch_ExpiredPending(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "beekeeper"}, holder).Success)

	f.now = f.now.Add(2 * time.Hour)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))
	res := f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.Equal(t, KindNoPendingLink, res.Kind)
	assert.Equal(t, 2, f.store.Users().Len())
}

func TestLinkTwitch_UsernameMatchIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "BeeKeeper"}, holder).Success)

	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))
	res := f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)
	assert.True(t, res.Success, res.Error)
}

func TestLinkTwitch_InvalidUsername(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "ghost"}, caller)

	assert.Equal(t, KindInvalidUsername, res.Kind)
	assert.Equal(t, "Invalid Twitch username", res.Error)
	assert.Equal(t, caller, f.reload(t, caller.ID))
}

func TestLinkTwitch_MergeWriteNotAcknowledged(t *testing.T) {
	users := new(MockUserRepository)
	pending := new(MockRepository)
	verify := new(MockVerifier)
	svc := NewService(users, pending, verify, nil, Config{})

	caller := &domain.User{ID: "caller", Discord: &domain.DiscordAccount{ID: "d-1", Username: "beekeeper"}}
	holder := &domain.User{ID: "holder", Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}}
	verify.On("Verify", mock.Anything, domain.PlatformTwitch, "buzz").Return(buzz, nil)
	users.On("GetByPlatformField", mock.Anything, domain.PlatformTwitch, domain.FieldID, "tw-1").Return(holder, nil)
	pending.On("Get", mock.Anything, "holder", domain.PlatformDiscord).Return(&domain.PendingLink{
		HolderUserID: "holder", TargetPlatform: domain.PlatformDiscord, TargetUsername: "beekeeper",
	}, nil)
	users.On("Update", mock.Anything, "caller", mock.Anything).Return(nil, domain.ErrNotAcknowledged)

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, caller)

	assert.Equal(t, KindLinkFailed, res.Kind)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	pending.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

// ============================================================================
// Generic & Steam
// ============================================================================

func TestLinkGeneric_SetsExactlyOneField(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: "YouTube", Username: "hivemind"}, caller)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Your Youtube account has been linked", res.Data)

	updated := f.reload(t, caller.ID)
	assert.Equal(t, map[string]string{"youtube": "hivemind"}, updated.Accounts)
	assert.Equal(t, caller.Discord, updated.Discord)
	assert.Nil(t, updated.Twitch)
	assert.Nil(t, updated.Minecraft)
	assert.Nil(t, updated.Steam)
}

func TestLinkSteam_FallsBackToGenericWithoutVerifier(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))

	res := f.svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformSteam, Username: "gaben"}, caller)

	require.True(t, res.Success)
	updated := f.reload(t, caller.ID)
	assert.Nil(t, updated.Steam)
	assert.Equal(t, "gaben", updated.Accounts[domain.PlatformSteam])
}

func TestLinkSteam_Verified(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))
	other := f.createUser(t, discordCaller("d-2", "other"))

	res := f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformSteam, Username: "gaben"}, caller)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Your Steam account has been linked", res.Data)
	assert.Equal(t, "76561197960287930", f.reload(t, caller.ID).Steam.ID)

	res = f.svc.LinkAccount(ctx, discordOrigin("other", "d-2"), domain.PlatformInfo{Platform: domain.PlatformSteam, Username: "gaben"}, other)
	assert.Equal(t, KindAlreadyLinked, res.Kind)
	assert.Equal(t, "This Steam account has already been linked", res.Error)

	res = f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformSteam, Username: "nope"}, caller)
	assert.Equal(t, KindInvalidUsername, res.Kind)
}

// ============================================================================
// Failure classification
// ============================================================================

func TestLinkAccount_TimeoutKind(t *testing.T) {
	verify := new(MockVerifier)
	verify.On("Verify", mock.Anything, domain.PlatformMinecraft, "Steve").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)
	svc := NewService(new(MockUserRepository), new(MockRepository), verify, nil, Config{CallTimeout: 10 * time.Millisecond})

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "Steve"}, &domain.User{ID: "u1"})

	assert.Equal(t, KindTimeout, res.Kind)
	assert.Equal(t, ErrMsgTimeout, res.Error)
}

func TestLinkAccount_InternalErrorDoesNotLeak(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Update", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	svc := NewService(users, new(MockRepository), new(MockVerifier), nil, Config{})

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: "youtube", Username: "hive"}, &domain.User{ID: "u1"})

	assert.False(t, res.Success)
	assert.Equal(t, KindInternal, res.Kind)
	assert.Equal(t, "An error occurred while linking your account", res.Error)
}

func TestLinkAccount_RequiresCaller(t *testing.T) {
	svc := NewService(new(MockUserRepository), new(MockRepository), new(MockVerifier), nil, Config{})

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: "youtube", Username: "hive"}, nil)
	assert.Equal(t, KindInternal, res.Kind)
}

func TestLinkAccount_EmptyUsername(t *testing.T) {
	svc := NewService(new(MockUserRepository), new(MockRepository), new(MockVerifier), nil, Config{})

	res := svc.LinkAccount(context.Background(), discordOrigin("beekeeper", "d-1"),
		domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "  "}, &domain.User{ID: "u1"})
	assert.Equal(t, KindInvalidUsername, res.Kind)
	assert.Equal(t, "Invalid Minecraft username", res.Error)
}

func TestLinkAccount_PublishesAttemptOutcome(t *testing.T) {
	f := newFixture(t, false)
	caller := f.createUser(t, discordCaller("d-1", "beekeeper"))
	ctx := context.Background()

	f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "Steve"}, caller)
	f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformMinecraft, Username: "ghost"}, caller)

	attempts := f.events.ofType(event.LinkAttempted)
	require.Len(t, attempts, 2)
	first, err := event.DecodePayload[event.LinkAttemptedPayloadV1](attempts[0].Payload)
	require.NoError(t, err)
	second, err := event.DecodePayload[event.LinkAttemptedPayloadV1](attempts[1].Payload)
	require.NoError(t, err)
	assert.Equal(t, "success", first.Outcome)
	assert.Equal(t, string(KindInvalidUsername), second.Outcome)
	assert.Equal(t, domain.PlatformMinecraft, second.TargetPlatform)
}

// ============================================================================
// Status & cleanup
// ============================================================================

func TestStatus(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})

	status, err := f.svc.Status(ctx, holder)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.PlatformTwitch}, status.LinkedPlatforms)
	assert.Nil(t, status.Pending)

	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "beekeeper"}, holder).Success)

	status, err = f.svc.Status(ctx, holder)
	require.NoError(t, err)
	require.NotNil(t, status.Pending)
	assert.Equal(t, "beekeeper", status.Pending.TargetUsername)

	f.now = f.now.Add(2 * time.Hour)
	status, err = f.svc.Status(ctx, holder)
	require.NoError(t, err)
	assert.Nil(t, status.Pending)
}

func TestStatus_DiscordSideSeesIncomingLink(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	twitchSide := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	discordSide := f.createUser(t, discordCaller("d-1", "beekeeper"))

	status, err := f.svc.Status(ctx, discordSide)
	require.NoError(t, err)
	assert.Nil(t, status.Incoming)

	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "BeeKeeper"}, twitchSide).Success)

	status, err = f.svc.Status(ctx, discordSide)
	require.NoError(t, err)
	assert.Nil(t, status.Pending)
	require.NotNil(t, status.Incoming)
	assert.Equal(t, twitchSide.ID, status.Incoming.HolderUserID)
	assert.Equal(t, domain.PlatformTwitch, status.Incoming.OriginPlatform)
	assert.Equal(t, "buzz", status.Incoming.OriginUsername)

	other := f.createUser(t, discordCaller("d-2", "drone"))
	status, err = f.svc.Status(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, status.Incoming)

	// confirming consumes the link
	require.True(t, f.svc.LinkAccount(ctx, discordOrigin("beekeeper", "d-1"), domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz"}, discordSide).Success)
	status, err = f.svc.Status(ctx, f.reload(t, discordSide.ID))
	require.NoError(t, err)
	assert.Nil(t, status.Incoming)
	assert.ElementsMatch(t, []string{domain.PlatformDiscord, domain.PlatformTwitch}, status.LinkedPlatforms)

	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "drone"}, f.reload(t, discordSide.ID)).Success)
	f.now = f.now.Add(2 * time.Hour)
	status, err = f.svc.Status(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, status.Incoming, "expired links are not reported")
}

func TestStatus_IncomingLookupError(t *testing.T) {
	pending := new(MockRepository)
	pending.On("Get", mock.Anything, "u1", domain.PlatformDiscord).Return(nil, domain.ErrPendingLinkNotFound)
	pending.On("FindByTarget", mock.Anything, domain.PlatformDiscord, "beekeeper", mock.Anything).Return(nil, errors.New("boom"))
	svc := NewService(new(MockUserRepository), pending, new(MockVerifier), nil, Config{CallTimeout: time.Second, Now: time.Now})

	_, err := svc.Status(context.Background(), &domain.User{ID: "u1", Discord: &domain.DiscordAccount{ID: "d-1", Username: "beekeeper"}})
	assert.Error(t, err)
	pending.AssertExpectations(t)
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holder := f.createUser(t, domain.UserPatch{Twitch: &domain.TwitchAccount{ID: "tw-1", Login: "buzz"}})
	origin := domain.PlatformInfo{Platform: domain.PlatformTwitch, Username: "buzz", ID: "tw-1"}
	require.True(t, f.svc.LinkAccount(ctx, origin, domain.PlatformInfo{Platform: domain.PlatformDiscord, Username: "beekeeper"}, holder).Success)

	removed, err := f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, f.events.ofType(event.PendingLinksSwept))

	f.now = f.now.Add(time.Hour)
	removed, err = f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, f.events.ofType(event.PendingLinksSwept), 1)
}

func TestCleanupExpired_Error(t *testing.T) {
	pending := new(MockRepository)
	pending.On("CleanupExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("boom"))
	svc := NewService(new(MockUserRepository), pending, new(MockVerifier), nil, Config{})

	_, err := svc.CleanupExpired(context.Background())
	assert.Error(t, err)
}
