package discord

// Embed colors
const (
	ColorSuccess    = 0x65bf65
	ColorError      = 0xbf0f0f
	ColorSuggestion = 0xe8a917
)

// Embed titles
const (
	TitleDefault            = "Bee Name Generator"
	TitleBeeName            = "Bee Name"
	TitleBeeNameError       = "Error Getting Bee Name"
	TitleUploaded           = "Bee Name Uploaded"
	TitleUploadError        = "Error Uploading Bee Name"
	TitleDeleted            = "Bee Name Deleted"
	TitleDeleteError        = "Error Deleting Bee Name"
	TitleSuggestionSent     = "Bee Name Suggestion Submitted"
	TitleSuggestionSendErr  = "Error Submitting Bee Name Suggestion"
	TitleSuggestions        = "Bee Name Suggestions"
	TitleSuggestionsError   = "Error Getting Bee Name Suggestions"
	TitleSuggestionAnnounce = "Bee Name Generator Suggestion"
	TitleLink               = "Account Link"
	TitleLinkError          = "Error Linking Account"
	TitleLinkStatus         = "Linked Accounts"
)

// Friendly message constants for Discord responses
const (
	MsgUnknownError      = "An unknown error occurred."
	MsgNoPermission      = "You do not have permission to use this command."
	MsgNoButtonAccess    = "You do not have permission to use this."
	MsgNoSuggestions     = "There are no bee name suggestions right now."
	MsgAPIUnreachable    = "The bee name service is unreachable. Please try again later."
	MsgCooldownActive    = "Whoa there! You need to wait a bit before doing that again."
	MsgCooldownRemaining = "%s\nWait for: **%s**"
	MsgAccepted          = "%s has been accepted."
	MsgRejected          = "%s has been rejected."
	MsgLinkedPlatforms   = "**Linked platforms:** %s"
	MsgPendingLink       = "\n**Waiting for confirmation on %s** as `%s`"
	MsgIncomingLink      = "\n**%s account `%s` asked to link with you.** Confirm with `/link twitch %s`"
	MsgNotLinked         = "This Discord account is not linked to anything yet."

	FooterBeeName = "Bee Name Generator"
)

// Command, option, and component identifiers
const (
	CommandBeeName = "bee_name"
	CommandLink    = "link"

	SubcommandGet        = "get"
	SubcommandUpload     = "upload"
	SubcommandDelete     = "delete"
	SubcommandSubmit     = "submit"
	GroupSuggestion      = "suggestion"
	SubcommandTwitch     = "twitch"
	SubcommandGame       = "game"
	SubcommandLinkStatus = "status"

	OptionName     = "name"
	OptionUsername = "username"
	OptionPlatform = "platform"

	ButtonAccept = "bee_name_accept"
	ButtonReject = "bee_name_reject"
	ButtonNext   = "bee_name_next"
)

// Log messages
const (
	LogMsgDeferFailed     = "Failed to send deferred response"
	LogMsgEditFailed      = "Failed to edit interaction response"
	LogMsgSendFailed      = "Failed to send channel message"
	LogMsgCommandResult   = "Command handled"
	LogMsgUnhandled       = "Interaction received but not handled"
	LogMsgBotReady        = "Bot is ready"
	LogMsgBotRunning      = "Discord bot is now running"
	LogMsgCheckCommands   = "Checking Discord commands..."
	LogMsgCommandsSame    = "Commands unchanged, skipping registration"
	LogMsgCommandsUpdated = "Commands updated successfully"
	LogMsgForceUpdate     = "Force update enabled - replacing all commands"
	LogMsgAnnounceSkipped = "No suggestion channel configured, skipping announcement"
)
