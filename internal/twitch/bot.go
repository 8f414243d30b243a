package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
)

const apiCallTimeout = 15 * time.Second

// Sender posts chat messages
type Sender interface {
	Say(channel, text, replyTo string) error
}

// Config holds the Twitch bot settings
type Config struct {
	URL      string
	Username string
	OAuth    string
	Channels []string
	Prefix   string
	Cooldown time.Duration
}

// Bot answers chat commands using the bee name API
type Bot struct {
	API       *apiclient.Client
	Prefix    string
	client    *Client
	sender    Sender
	cooldowns cooldown.Service
}

// New creates a bot connected through a Client built from cfg
func New(cfg Config, api *apiclient.Client) *Bot {
	b := newBot(cfg, api, nil)
	b.client = NewClient(cfg.URL, cfg.Username, cfg.OAuth, cfg.Channels, b.HandleMessage)
	b.sender = b.client
	return b
}

func newBot(cfg Config, api *apiclient.Client, sender Sender) *Bot {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "!"
	}
	return &Bot{
		API:    api,
		Prefix: prefix,
		sender: sender,
		cooldowns: cooldown.NewMemoryService(cooldown.Config{
			Default:  cfg.Cooldown,
			Disabled: cfg.Cooldown <= 0,
		}),
	}
}

// Start connects to chat
func (b *Bot) Start(ctx context.Context) {
	b.client.Start(ctx)
}

// Stop disconnects from chat
func (b *Bot) Stop() {
	b.client.Stop()
}

// IsConnected reports whether the chat connection is up
func (b *Bot) IsConnected() bool {
	return b.client != nil && b.client.IsConnected()
}

// HandleMessage dispatches a chat line that starts with the command prefix
func (b *Bot) HandleMessage(ctx context.Context, msg *Message) {
	text := strings.TrimSpace(msg.Text())
	if !strings.HasPrefix(text, b.Prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(text, b.Prefix))
	if len(fields) == 0 {
		return
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	var reply string
	switch command {
	case CommandBeeName:
		reply = b.beeName(ctx, msg)
	case CommandSuggest:
		reply = b.suggest(ctx, msg, args)
	case CommandLink:
		reply = b.link(ctx, msg, args)
	default:
		return
	}

	slog.Debug(LogMsgCommand, "command", command, "user", msg.Nick(), "channel", msg.Channel())
	if reply == "" {
		return
	}
	if err := b.sender.Say(msg.Channel(), reply, msg.Tags[TagMessageID]); err != nil {
		slog.Error(LogMsgSendFailed, "channel", msg.Channel(), "error", err)
	}
}

func (b *Bot) beeName(ctx context.Context, msg *Message) string {
	ctx, cancel := context.WithTimeout(ctx, apiCallTimeout)
	defer cancel()

	var name string
	err := b.cooldowns.EnforceCooldown(ctx, userKey(msg), cooldown.ActionBeeName, func() error {
		var err error
		name, err = b.API.RandomName(ctx)
		return err
	})
	if err != nil {
		return friendlyError(msg, err)
	}
	return fmt.Sprintf(MsgBeeName, name)
}

func (b *Bot) suggest(ctx context.Context, msg *Message, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf(MsgUsageSuggest, b.Prefix)
	}
	ctx, cancel := context.WithTimeout(ctx, apiCallTimeout)
	defer cancel()

	var name string
	err := b.cooldowns.EnforceCooldown(ctx, userKey(msg), cooldown.ActionSuggestion, func() error {
		var err error
		name, err = b.API.SubmitSuggestion(ctx, strings.Join(args, " "))
		return err
	})
	if err != nil {
		return friendlyError(msg, err)
	}
	return fmt.Sprintf(MsgSuggestionSent, name)
}

// errLinkRejected releases the cooldown slot when the API refused the link,
// so a mistyped username can be retried at once
var errLinkRejected = errors.New(ErrMsgLinkRejected)

func (b *Bot) link(ctx context.Context, msg *Message, args []string) string {
	if len(args) < 2 {
		return fmt.Sprintf(MsgUsageLink, b.Prefix)
	}
	ctx, cancel := context.WithTimeout(ctx, apiCallTimeout)
	defer cancel()

	req := handler.LinkRequest{
		Origin: handler.LinkOrigin{Platform: domain.PlatformTwitch, Username: msg.Nick(), ID: msg.Tags[TagUserID]},
		Target: handler.LinkTarget{Platform: strings.ToLower(args[0]), Username: strings.Join(args[1:], " ")},
	}

	var text string
	err := b.cooldowns.EnforceCooldown(ctx, userKey(msg), cooldown.ActionLink, func() error {
		result, err := b.API.Link(ctx, req)
		if err != nil {
			return err
		}
		if !result.Success {
			text = result.Error
			return errLinkRejected
		}
		text = result.Data
		return nil
	})
	if err != nil && !errors.Is(err, errLinkRejected) {
		return friendlyError(msg, err)
	}
	return fmt.Sprintf(MsgMention, msg.DisplayName(), text)
}

// userKey scopes cooldowns to the Twitch account, falling back to the login
func userKey(msg *Message) string {
	if id := msg.Tags[TagUserID]; id != "" {
		return domain.PlatformTwitch + ":" + id
	}
	return domain.PlatformTwitch + ":" + msg.Nick()
}

func friendlyError(msg *Message, err error) string {
	var (
		apiErr *apiclient.APIError
		cdErr  cooldown.ErrOnCooldown
	)
	switch {
	case errors.As(err, &cdErr):
		return fmt.Sprintf(MsgCooldown, msg.DisplayName(), cdErr.Remaining.Round(time.Second))
	case errors.As(err, &apiErr):
		return fmt.Sprintf(MsgMention, msg.DisplayName(), apiErr.Message)
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(err.Error(), "connection refused"):
		return MsgAPIUnreachable
	default:
		return MsgUnknownError
	}
}
