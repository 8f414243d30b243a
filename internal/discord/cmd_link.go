package discord

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/apiclient"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
)

// LinkCommand returns the /link command definition and handler
func LinkCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CommandLink,
		Description: "Link your Discord account to another platform",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandTwitch,
				Description: "Link your Twitch account",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionUsername,
						Description: "Your Twitch username",
						Required:    true,
						MaxLength:   100,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandGame,
				Description: "Link a game account",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionPlatform,
						Description: "The game platform",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Minecraft", Value: domain.PlatformMinecraft},
							{Name: "Steam", Value: domain.PlatformSteam},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionUsername,
						Description: "Your in-game username",
						Required:    true,
						MaxLength:   100,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandLinkStatus,
				Description: "Show the accounts linked to your Discord account",
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

		var embed *discordgo.MessageEmbed
		switch strings.Join(path, " ") {
		case SubcommandTwitch:
			embed = b.runLink(user, domain.PlatformTwitch, opts[OptionUsername].StringValue())
		case SubcommandGame:
			embed = b.runLink(user, opts[OptionPlatform].StringValue(), opts[OptionUsername].StringValue())
		case SubcommandLinkStatus:
			embed = b.linkStatus(user)
		default:
			embed = createEmbed(TitleDefault, MsgUnknownError, ColorError)
		}

		sendEmbed(s, i, embed, nil)
	}

	return cmd, handler
}

// errLinkRejected releases the cooldown slot when the API refused the link
var errLinkRejected = errors.New("link rejected")

// runLink asks the API to link the Discord caller to target
func (b *Bot) runLink(user *discordgo.User, platform, username string) *discordgo.MessageEmbed {
	ctx, cancel := apiContext()
	defer cancel()

	var result linking.LinkResult
	err := b.withCooldown(ctx, user.ID, cooldown.ActionLink, func() error {
		var err error
		result, err = b.Client.Link(ctx, handler.LinkRequest{
			Origin: handler.LinkOrigin{Platform: domain.PlatformDiscord, Username: user.Username, ID: user.ID},
			Target: handler.LinkTarget{Platform: platform, Username: username},
		})
		if err == nil && !result.Success {
			return errLinkRejected
		}
		return err
	})
	if err != nil && !errors.Is(err, errLinkRejected) {
		return errorEmbed(TitleLinkError, err)
	}

	if !result.Success {
		return createEmbed(TitleLinkError, result.Error, ColorError)
	}
	return createEmbed(TitleLink, result.Data, ColorSuccess)
}

func (b *Bot) linkStatus(user *discordgo.User) *discordgo.MessageEmbed {
	ctx, cancel := apiContext()
	defer cancel()

	status, err := b.Client.LinkStatus(ctx, domain.PlatformDiscord, user.ID)
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return createEmbed(TitleLinkStatus, MsgNotLinked, ColorSuccess)
	}
	if err != nil {
		return errorEmbed(TitleLinkStatus, err)
	}

	caser := cases.Title(language.English)
	platforms := make([]string, 0, len(status.LinkedPlatforms))
	for _, p := range status.LinkedPlatforms {
		if p != domain.PlatformDiscord {
			platforms = append(platforms, caser.String(p))
		}
	}

	var desc string
	if len(platforms) == 0 {
		desc = MsgNotLinked
	} else {
		desc = fmt.Sprintf(MsgLinkedPlatforms, strings.Join(platforms, ", "))
	}
	if status.Pending != nil {
		desc += fmt.Sprintf(MsgPendingLink, caser.String(status.Pending.TargetPlatform), status.Pending.TargetUsername)
	}
	if in := status.Incoming; in != nil {
		desc += fmt.Sprintf(MsgIncomingLink, caser.String(in.OriginPlatform), in.OriginUsername, in.OriginUsername)
	}
	return createEmbed(TitleLinkStatus, desc, ColorSuccess)
}
