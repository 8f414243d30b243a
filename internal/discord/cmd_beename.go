package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
)

// BeeNameCommand returns the /bee_name command definition and handler
func BeeNameCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	nameOption := func(desc string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionName,
				Description: desc,
				Required:    true,
				MaxLength:   100,
			},
		}
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        CommandBeeName,
		Description: "Get a random bee name",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandGet,
				Description: "Get a random bee name",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandUpload,
				Description: "Upload a bee name",
				Options:     nameOption("The bee name to upload"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandDelete,
				Description: "Delete a bee name",
				Options:     nameOption("The bee name to delete"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        GroupSuggestion,
				Description: "Bee name suggestions",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        SubcommandSubmit,
						Description: "Submit a bee name suggestion",
						Options:     nameOption("The bee name to submit"),
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        SubcommandGet,
						Description: "Get a bee name suggestion",
					},
				},
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)
		path, options := subcommandPath(i)
		opts := optionMap(options)

		name := ""
		if opt, ok := opts[OptionName]; ok {
			name = opt.StringValue()
		}

		embed, components := b.runBeeNameCommand(user.ID, strings.Join(path, " "), name)
		sendEmbed(s, i, embed, components)
	}

	return cmd, handler
}

// runBeeNameCommand executes one /bee_name subcommand and builds the reply
func (b *Bot) runBeeNameCommand(userID, subcommand, name string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	ctx, cancel := apiContext()
	defer cancel()

	var (
		result string
		err    error
	)

	switch subcommand {
	case SubcommandGet:
		err = b.withCooldown(ctx, userID, cooldown.ActionBeeName, func() error {
			result, err = b.Client.RandomName(ctx)
			return err
		})
		if err != nil {
			return errorEmbed(TitleBeeNameError, err), nil
		}
		return createEmbed(TitleBeeName, result, ColorSuccess), nil

	case SubcommandUpload:
		if !b.IsAdmin(userID) {
			return createEmbed(TitleDefault, MsgNoPermission, ColorError), nil
		}
		if result, err = b.Client.UploadName(ctx, name); err != nil {
			return errorEmbed(TitleUploadError, err), nil
		}
		return createEmbed(TitleUploaded, result, ColorSuccess), nil

	case SubcommandDelete:
		if !b.IsAdmin(userID) {
			return createEmbed(TitleDefault, MsgNoPermission, ColorError), nil
		}
		if result, err = b.Client.DeleteName(ctx, name); err != nil {
			return errorEmbed(TitleDeleteError, err), nil
		}
		return createEmbed(TitleDeleted, result, ColorSuccess), nil

	case GroupSuggestion + " " + SubcommandSubmit:
		err = b.withCooldown(ctx, userID, cooldown.ActionSuggestion, func() error {
			result, err = b.Client.SubmitSuggestion(ctx, name)
			return err
		})
		if err != nil {
			return errorEmbed(TitleSuggestionSendErr, err), nil
		}
		return createEmbed(TitleSuggestionSent, result, ColorSuccess), nil

	case GroupSuggestion + " " + SubcommandGet:
		if !b.IsAdmin(userID) {
			return createEmbed(TitleDefault, MsgNoPermission, ColorError), nil
		}
		return b.nextSuggestion(b.Client.Suggestions(ctx, 1))
	}

	slog.Warn(LogMsgUnhandled, "command", CommandBeeName, "subcommand", subcommand)
	return createEmbed(TitleDefault, MsgUnknownError, ColorError), nil
}

// nextSuggestion renders the suggestion review embed
func (b *Bot) nextSuggestion(names []string, err error) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	if err != nil {
		return errorEmbed(TitleSuggestionsError, err), nil
	}
	if len(names) == 0 {
		return createEmbed(TitleSuggestions, MsgNoSuggestions, ColorSuccess), suggestionButtons(true)
	}
	return createEmbed(TitleSuggestions, strings.Join(names, "\n"), ColorSuccess), suggestionButtons(false)
}

// suggestionButtons builds the Accept / Reject / Next row. decided disables
// the moderation buttons once the shown name has been handled.
func suggestionButtons(decided bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Accept", Style: discordgo.SuccessButton, CustomID: ButtonAccept, Disabled: decided},
				discordgo.Button{Label: "Reject", Style: discordgo.DangerButton, CustomID: ButtonReject, Disabled: decided},
				discordgo.Button{Label: "Next", Style: discordgo.PrimaryButton, CustomID: ButtonNext},
			},
		},
	}
}

// SuggestionButtonHandler handles the review buttons. The name under review
// is the description of the clicked message's embed.
func SuggestionButtonHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	if !deferUpdate(s, i) {
		return
	}

	user := getInteractionUser(i)
	if !b.IsAdmin(user.ID) {
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: MsgNoButtonAccess,
			Flags:   discordgo.MessageFlagsEphemeral,
		}); err != nil {
			slog.Error(LogMsgEditFailed, "error", err)
		}
		return
	}

	name := ""
	if i.Message != nil && len(i.Message.Embeds) > 0 {
		name = i.Message.Embeds[0].Description
	}

	embed, components := b.runSuggestionButton(i.MessageComponentData().CustomID, name)
	sendEmbed(s, i, embed, components)
}

func (b *Bot) runSuggestionButton(customID, name string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	ctx, cancel := apiContext()
	defer cancel()

	switch customID {
	case ButtonAccept:
		accepted, err := b.Client.AcceptSuggestion(ctx, name)
		if err != nil {
			return errorEmbed(TitleSuggestions, err), suggestionButtons(false)
		}
		return createEmbed(TitleSuggestions, fmt.Sprintf(MsgAccepted, accepted), ColorSuccess), suggestionButtons(true)

	case ButtonReject:
		rejected, err := b.Client.RejectSuggestion(ctx, name)
		if err != nil {
			return errorEmbed(TitleSuggestions, err), suggestionButtons(false)
		}
		return createEmbed(TitleSuggestions, fmt.Sprintf(MsgRejected, rejected), ColorSuccess), suggestionButtons(true)

	case ButtonNext:
		embed, components := b.nextSuggestion(b.Client.Suggestions(ctx, 1))
		if components == nil {
			components = suggestionButtons(true)
		}
		return embed, components
	}

	return createEmbed(TitleSuggestions, MsgUnknownError, ColorError), suggestionButtons(false)
}
