package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
)

// apiCallTimeout bounds the API work behind one interaction
const apiCallTimeout = 15 * time.Second

// CommandHandler handles a slash command or a button press
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot)

// CommandRegistry holds the registered commands and component handlers
type CommandRegistry struct {
	Commands   map[string]*discordgo.ApplicationCommand
	Handlers   map[string]CommandHandler
	Components map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands:   make(map[string]*discordgo.ApplicationCommand),
		Handlers:   make(map[string]CommandHandler),
		Components: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterComponent routes a button custom ID to handler
func (r *CommandRegistry) RegisterComponent(customID string, handler CommandHandler) {
	r.Components[customID] = handler
}

// Handle processes an interaction
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	var (
		h  CommandHandler
		ok bool
	)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h, ok = r.Handlers[i.ApplicationCommandData().Name]
	case discordgo.InteractionMessageComponent:
		h, ok = r.Components[i.MessageComponentData().CustomID]
	}

	if !ok {
		slog.Debug(LogMsgUnhandled, "type", i.Type)
		return
	}
	RecordCommand()
	h(s, i, b)
}

// RegisterCommands intelligently registers/updates commands with Discord.
// Only performs updates if commands have changed to avoid rate limits.
// Commands are guild scoped when the bot has a guild ID.
func (b *Bot) RegisterCommands(forceUpdate bool) error {
	slog.Info(LogMsgCheckCommands, "guild_id", b.GuildID)

	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(b.Registry.Commands))
	for _, cmd := range b.Registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}

	if forceUpdate {
		slog.Info(LogMsgForceUpdate, "count", len(desiredCmds))
		if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, desiredCmds); err != nil {
			return fmt.Errorf("failed to bulk overwrite commands: %w", err)
		}
		slog.Info(LogMsgCommandsUpdated, "count", len(desiredCmds))
		return nil
	}

	existingCmds, err := b.Session.ApplicationCommands(b.AppID, b.GuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch existing commands: %w", err)
	}

	if commandsEqual(existingCmds, desiredCmds) {
		slog.Info(LogMsgCommandsSame, "count", len(existingCmds))
		return nil
	}

	slog.Info("Commands changed, updating...",
		"existing", len(existingCmds),
		"desired", len(desiredCmds))

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, desiredCmds); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}

	slog.Info(LogMsgCommandsUpdated, "count", len(desiredCmds))
	return nil
}

// commandsEqual checks if two command sets are equivalent
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		existingMap[cmd.Name] = cmd
	}

	for _, d := range desired {
		e, ok := existingMap[d.Name]
		if !ok || !commandEqual(e, d) {
			return false
		}
	}
	return true
}

func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}

	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}

	return optionsEqual(a.Options, b.Options)
}

// optionsEqual compares option trees, subcommands included
func optionsEqual(a, b []*discordgo.ApplicationCommandOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !optionEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description || a.Required != b.Required {
		return false
	}

	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for i := range a.Choices {
		if a.Choices[i].Name != b.Choices[i].Name || fmt.Sprint(a.Choices[i].Value) != fmt.Sprint(b.Choices[i].Value) {
			return false
		}
	}

	return optionsEqual(a.Options, b.Options)
}

// deferResponse acknowledges a slash command with an ephemeral deferred reply.
// Returns false if deferral failed (should return early from handler).
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		slog.Error(LogMsgDeferFailed, "error", err)
		return false
	}
	return true
}

// deferUpdate acknowledges a button press; the reply edits the clicked message
func deferUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		slog.Error(LogMsgDeferFailed, "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// optionMap indexes the options of one command level by name
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// subcommandPath returns the subcommand names (group first) and the leaf options
func subcommandPath(i *discordgo.InteractionCreate) ([]string, []*discordgo.ApplicationCommandInteractionDataOption) {
	var path []string
	options := i.ApplicationCommandData().Options
	for len(options) > 0 {
		opt := options[0]
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand && opt.Type != discordgo.ApplicationCommandOptionSubCommandGroup {
			break
		}
		path = append(path, opt.Name)
		options = opt.Options
	}
	return path, options
}

// createEmbed creates a standard embed with the bot footer
func createEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: FooterBeeName,
		},
	}
}

// errorEmbed builds the error embed shown for a failed command
func errorEmbed(title string, err error) *discordgo.MessageEmbed {
	return createEmbed(title, formatFriendlyError(err), ColorError)
}

// sendEmbed edits the deferred reply. Components may be nil.
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}
	if components != nil {
		edit.Components = &components
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		slog.Error(LogMsgEditFailed, "error", err)
		return
	}

	slog.Debug(LogMsgCommandResult, "title", embed.Title, "description", embed.Description)
}

// respondError sends a plain text reply
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error(LogMsgEditFailed, "error", err)
	}
}

// formatFriendlyError turns client and cooldown errors into user-facing text
func formatFriendlyError(err error) string {
	var (
		apiErr *apiclient.APIError
		cdErr  cooldown.ErrOnCooldown
	)

	switch {
	case err == nil:
		return MsgUnknownError
	case errors.As(err, &cdErr):
		return fmt.Sprintf(MsgCooldownRemaining, MsgCooldownActive, cdErr.Remaining.Round(time.Second))
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return MsgAPIUnreachable
	default:
		msg := err.Error()
		if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
			return MsgAPIUnreachable
		}
		return MsgUnknownError
	}
}

// withCooldown runs fn under the user's cooldown for action
func (b *Bot) withCooldown(ctx context.Context, userID, action string, fn func() error) error {
	return b.cooldowns.EnforceCooldown(ctx, userID, action, fn)
}

// apiContext bounds the API calls made for one interaction
func apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiCallTimeout)
}

// RegisterAll adds every bot command and button handler to registry
func RegisterAll(registry *CommandRegistry) {
	for _, factory := range []func() (*discordgo.ApplicationCommand, CommandHandler){
		BeeNameCommand,
		LinkCommand,
	} {
		cmd, handler := factory()
		registry.Register(cmd, handler)
	}

	for _, id := range []string{ButtonAccept, ButtonReject, ButtonNext} {
		registry.RegisterComponent(id, SuggestionButtonHandler)
	}
}
