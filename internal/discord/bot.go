package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/sse"
)

// Bot represents the Discord bot
type Bot struct {
	Session   *discordgo.Session
	Client    *apiclient.Client
	AppID     string
	GuildID   string
	ChannelID string
	Registry  *CommandRegistry

	admins    map[string]bool
	cooldowns cooldown.Service
	events    *apiclient.EventStream
}

// Config holds the bot configuration
type Config struct {
	Token     string
	AppID     string
	GuildID   string
	ChannelID string
	AdminIDs  []string
	APIURL    string
	APIKey    string
	Cooldown  time.Duration
}

// New creates a new Discord bot
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	return newBot(s, apiclient.New(cfg.APIURL, cfg.APIKey), cfg), nil
}

func newBot(s *discordgo.Session, client *apiclient.Client, cfg Config) *Bot {
	admins := make(map[string]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		Session:   s,
		Client:    client,
		AppID:     cfg.AppID,
		GuildID:   cfg.GuildID,
		ChannelID: cfg.ChannelID,
		Registry:  NewCommandRegistry(),
		admins:    admins,
		cooldowns: cooldown.NewMemoryService(cooldown.Config{
			Default:  cfg.Cooldown,
			Disabled: cfg.Cooldown <= 0,
		}),
	}
}

// IsAdmin reports whether the Discord user may moderate names
func (b *Bot) IsAdmin(userID string) bool {
	return b.admins[userID]
}

// Start opens the gateway connection and, when a suggestion channel is
// configured, follows the API event stream
func (b *Bot) Start(ctx context.Context) error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if b.ChannelID != "" {
		b.events = b.Client.NewEventStream(sse.EventTypeBeeNameSuggested)
		b.events.OnEvent(sse.EventTypeBeeNameSuggested, b.handleSuggestionEvent)
		b.events.Start(ctx)
	} else {
		slog.Info(LogMsgAnnounceSkipped)
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	if b.events != nil {
		b.events.Stop()
	}
	if err := b.Session.Close(); err != nil {
		slog.Warn("Error closing Discord session", "error", err)
	}
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", r.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.Registry.Handle(s, i, b)
}

func (b *Bot) handleSuggestionEvent(_ context.Context, evt apiclient.StreamEvent) error {
	var payload sse.BeeNamePayload
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		return fmt.Errorf("decode suggestion payload: %w", err)
	}
	return b.AnnounceSuggestion(payload.Name)
}

// AnnounceSuggestion posts a new suggestion, with moderation buttons, to the
// suggestion channel
func (b *Bot) AnnounceSuggestion(name string) error {
	if b.ChannelID == "" {
		return nil
	}

	_, err := b.Session.ChannelMessageSendComplex(b.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{createEmbed(TitleSuggestionAnnounce, name, ColorSuggestion)},
		Components: suggestionButtons(false),
	})
	if err != nil {
		slog.Error(LogMsgSendFailed, "channel_id", b.ChannelID, "error", err)
		return err
	}
	return nil
}
