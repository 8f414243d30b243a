package twitch

import (
	"strings"
)

// Message is one parsed IRC line
type Message struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

var tagUnescaper = strings.NewReplacer(`\s`, " ", `\:`, ";", `\\`, `\`, `\r`, "\r", `\n`, "\n")

var tagEscaper = strings.NewReplacer(`\`, `\\`, " ", `\s`, ";", `\:`, "\r", `\r`, "\n", `\n`)

// ParseMessage parses a single IRC line (without the trailing CRLF).
// It returns nil for empty lines.
func ParseMessage(line string) *Message {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}

	msg := &Message{Tags: map[string]string{}}

	if strings.HasPrefix(line, "@") {
		raw, rest, _ := strings.Cut(line[1:], " ")
		for _, tag := range strings.Split(raw, ";") {
			key, value, _ := strings.Cut(tag, "=")
			msg.Tags[key] = tagUnescaper.Replace(value)
		}
		line = strings.TrimLeft(rest, " ")
	}

	if strings.HasPrefix(line, ":") {
		msg.Prefix, line, _ = strings.Cut(line[1:], " ")
		line = strings.TrimLeft(line, " ")
	}

	var trailing string
	hasTrailing := false
	if i := strings.Index(line, " :"); i >= 0 {
		trailing = line[i+2:]
		line = line[:i]
		hasTrailing = true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	msg.Command = strings.ToUpper(fields[0])
	msg.Params = fields[1:]
	if hasTrailing {
		msg.Params = append(msg.Params, trailing)
	}
	return msg
}

// Nick returns the sender's login from the prefix
func (m *Message) Nick() string {
	nick, _, _ := strings.Cut(m.Prefix, "!")
	return nick
}

// Channel returns the target channel without the leading '#'
func (m *Message) Channel() string {
	if len(m.Params) == 0 {
		return ""
	}
	return strings.TrimPrefix(m.Params[0], "#")
}

// Text returns the trailing parameter
func (m *Message) Text() string {
	if len(m.Params) < 2 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// DisplayName prefers the display-name tag over the login
func (m *Message) DisplayName() string {
	if name := m.Tags[TagDisplayName]; name != "" {
		return name
	}
	return m.Nick()
}

// formatPrivmsg builds an outgoing chat line, threaded under replyTo when set
func formatPrivmsg(channel, text, replyTo string) string {
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
	if r := []rune(text); len(r) > MaxMessageLength {
		text = string(r[:MaxMessageLength])
	}

	line := IRCPrivmsg + " #" + strings.TrimPrefix(channel, "#") + " :" + text
	if replyTo != "" {
		line = "@" + TagReplyParent + "=" + tagEscaper.Replace(replyTo) + " " + line
	}
	return line
}
