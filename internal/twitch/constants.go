package twitch

import "time"

// Connection defaults
const (
	// DefaultURL is Twitch's IRC-over-WebSocket endpoint
	DefaultURL = "wss://irc-ws.chat.twitch.tv:443"

	DefaultReconnectDelay = 1 * time.Second
	MaxReconnectDelay     = 2 * time.Minute
	ReconnectMultiplier   = 2.0

	WriteTimeout    = 10 * time.Second
	ReadTimeout     = 6 * time.Minute // Twitch pings roughly every five minutes
	ReadBufferSize  = 4096
	WriteBufferSize = 4096

	// MaxMessageLength is Twitch's limit for one chat message
	MaxMessageLength = 500
)

// IRC commands
const (
	IRCPass      = "PASS"
	IRCNick      = "NICK"
	IRCJoin      = "JOIN"
	IRCPing      = "PING"
	IRCPong      = "PONG"
	IRCPrivmsg   = "PRIVMSG"
	IRCReconnect = "RECONNECT"
	IRCNotice    = "NOTICE"
	IRCWelcome   = "001"

	CapabilityRequest = "CAP REQ :twitch.tv/tags twitch.tv/commands"
)

// Message tags
const (
	TagUserID      = "user-id"
	TagDisplayName = "display-name"
	TagMessageID   = "id"
	TagReplyParent = "reply-parent-msg-id"
)

// Chat commands, without the prefix
const (
	CommandBeeName = "beename"
	CommandSuggest = "suggest"
	CommandLink    = "link"
)

// Chat replies
const (
	MsgBeeName        = "🐝 %s"
	MsgSuggestionSent = "Thanks! \"%s\" was submitted for review."
	MsgUsageSuggest   = "Usage: %ssuggest <name>"
	MsgUsageLink      = "Usage: %slink <platform> <username>"
	MsgCooldown       = "@%s slow down, try again in %s."
	MsgAPIUnreachable = "The bee name service is unreachable right now."
	MsgUnknownError   = "Something went wrong, please try again later."
	MsgMention        = "@%s %s"
)

// Error messages
const (
	ErrMsgNotConnected   = "not connected to Twitch chat"
	ErrMsgAuthFailed     = "twitch rejected the login: %s"
	ErrMsgReconnectAsked = "twitch asked the client to reconnect"
	ErrMsgLinkRejected   = "link rejected"
)

// Log messages
const (
	LogMsgConnecting    = "Connecting to Twitch chat"
	LogMsgConnected     = "Connected to Twitch chat"
	LogMsgJoined        = "Joined Twitch channel"
	LogMsgReconnecting  = "Reconnecting to Twitch chat"
	LogMsgDisconnected  = "Twitch chat connection closed"
	LogMsgReadError     = "Error reading from Twitch chat"
	LogMsgSendFailed    = "Failed to send Twitch chat message"
	LogMsgClientStopped = "Twitch chat client stopped"
	LogMsgCommand       = "Chat command received"
	LogMsgNotice        = "Twitch notice"
)
